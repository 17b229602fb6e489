package tools

import (
	"context"

	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/platform/googledocs"
)

// fetchGoogleDocTool pulls live content for a curriculum file from its
// published Google Doc. Fetch failures come back as an error payload so the
// model can fall back to the store's copy of the content.
type fetchGoogleDocTool struct {
	store *curriculum.Store
	docs  googledocs.Fetcher
}

func (t *fetchGoogleDocTool) Definition() Definition {
	return Definition{
		Name:        "fetch_google_doc",
		Description: "Fetch the live content of a curriculum file from its Novel Partners Google Doc. Accepts a file ID, a Google Docs URL, or a bare document ID.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"fileId": map[string]any{"type": "string", "description": "Optional: Curriculum file ID whose linked Google Doc should be fetched"},
				"docUrl": map[string]any{"type": "string", "description": "Optional: Google Docs URL or bare document ID"},
			},
		},
	}
}

func (t *fetchGoogleDocTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	target := stringArg(args, "docUrl")
	fileID := stringArg(args, "fileId")

	if target == "" && fileID != "" {
		resource, ok := t.store.ResourceByID(fileID)
		if !ok {
			return &Result{Payload: map[string]any{
				"error":  "File not found",
				"fileId": fileID,
			}}, nil
		}
		target = metadataString(resource.Metadata, "googleDocUrl")
		if target == "" {
			return &Result{Payload: map[string]any{
				"error":  "File has no linked Google Doc",
				"fileId": fileID,
			}}, nil
		}
	}
	if target == "" {
		return &Result{Payload: map[string]any{
			"error": "Provide a fileId or docUrl",
		}}, nil
	}

	doc, err := t.docs.Fetch(ctx, target)
	if err != nil {
		return &Result{Payload: map[string]any{
			"error":   "Failed to fetch Google Doc",
			"message": err.Error(),
		}}, nil
	}

	return &Result{Payload: map[string]any{
		"id":      doc.ID,
		"title":   doc.Title,
		"content": doc.Markdown,
		"url":     doc.URL,
		"fetched": true,
		"source":  "google_docs",
		"plain":   doc.Content,
		"fileId":  fileID,
	}}, nil
}
