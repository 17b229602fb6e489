package tools

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/novelpartners/curriculum-assistant/internal/types"
)

type createDocumentTool struct{}

func (t *createDocumentTool) Definition() Definition {
	return Definition{
		Name:        "create_document",
		Description: "Create a new document (handout, lesson plan, assessment, etc.) that will be displayed in the artifacts panel.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"title": map[string]any{"type": "string", "description": "Document title"},
				"type": map[string]any{
					"type":        "string",
					"enum":        []string{"document", "lesson_plan", "assessment", "handout"},
					"description": "Type of document to create",
				},
				"content":  map[string]any{"type": "string", "description": "The markdown or HTML content of the document"},
				"metadata": map[string]any{"type": "object", "description": "Optional metadata like course, unit, lesson, adaptedFor, standards"},
			},
			Required: []string{"title", "type", "content"},
		},
	}
}

func (t *createDocumentTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	documentID := "doc-" + uuid.NewString()

	title := stringArg(args, "title")
	docType := stringArg(args, "type")
	content := stringArg(args, "content")
	metadata, _ := args["metadata"].(map[string]any)
	if metadata == nil {
		metadata = map[string]any{}
	}

	artifact := types.Artifact{
		ID:       documentID,
		Type:     types.ArtifactType(docType),
		Title:    title,
		Content:  content,
		Metadata: metadata,
	}

	return &Result{
		Payload: map[string]any{
			"documentId": documentID,
			"title":      title,
			"type":       docType,
			"content":    content,
			"metadata":   metadata,
			"created":    time.Now().UTC().Format(time.RFC3339),
			"message":    "Document created and displayed in artifacts panel",
		},
		Artifacts: []types.Artifact{artifact},
	}, nil
}

type updateDocumentTool struct{}

func (t *updateDocumentTool) Definition() Definition {
	return Definition{
		Name:        "update_document",
		Description: "Update an existing document with new content or revisions.",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]any{
				"documentId": map[string]any{"type": "string", "description": "The ID of the document to update"},
				"content":    map[string]any{"type": "string", "description": "The new content (will replace existing content)"},
				"title":      map[string]any{"type": "string", "description": "Optional: Update the document title"},
			},
			Required: []string{"documentId", "content"},
		},
	}
}

func (t *updateDocumentTool) Execute(_ context.Context, args map[string]any) (*Result, error) {
	documentID := stringArg(args, "documentId")
	content := stringArg(args, "content")
	title := stringArg(args, "title")

	// Title and type stay empty here; the artifact store keeps the existing
	// values when merging an update into a known document.
	artifact := types.Artifact{
		ID:      documentID,
		Title:   title,
		Content: content,
	}

	payload := map[string]any{
		"documentId": documentID,
		"content":    content,
		"updated":    time.Now().UTC().Format(time.RFC3339),
		"message":    "Document updated",
	}
	if title != "" {
		payload["title"] = title
	}

	return &Result{
		Payload:   payload,
		Artifacts: []types.Artifact{artifact},
	}, nil
}
