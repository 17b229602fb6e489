package services

import (
	"fmt"
	"strings"
)

// Display metadata for tool lifecycle events. Labels are short chip text;
// descriptions explain the specific invocation.
var toolLabels = map[string]string{
	"list_files":                  "Browsing curriculum",
	"search_files":                "Searching curriculum",
	"open_file":                   "Opening file",
	"copy_section":                "Copying section",
	"fetch_google_doc":            "Fetching Google Doc",
	"create_document":             "Drafting document",
	"update_document":             "Revising document",
	"create_enlighten_assignment": "Building assignment",
}

func toolLabel(name string) string {
	if label, ok := toolLabels[name]; ok {
		return label
	}
	return strings.ReplaceAll(name, "_", " ")
}

func toolDescription(name string, input map[string]any) string {
	switch name {
	case "list_files":
		return "Listing curriculum files"
	case "search_files":
		if q := inputString(input, "query"); q != "" {
			return fmt.Sprintf("Searching for %q", q)
		}
		return "Searching curriculum files"
	case "open_file":
		if id := inputString(input, "fileId"); id != "" {
			return fmt.Sprintf("Opening %s", id)
		}
		return "Opening a curriculum file"
	case "copy_section":
		if h := inputString(input, "heading"); h != "" {
			return fmt.Sprintf("Copying the %q section", h)
		}
		return "Copying a section"
	case "fetch_google_doc":
		return "Fetching live Google Doc content"
	case "create_document":
		if t := inputString(input, "title"); t != "" {
			return fmt.Sprintf("Creating %q", t)
		}
		return "Creating a document"
	case "update_document":
		return "Updating a document"
	case "create_enlighten_assignment":
		if t := inputString(input, "title"); t != "" {
			return fmt.Sprintf("Preparing %q in EnlightenAI", t)
		}
		return "Preparing an EnlightenAI assignment"
	default:
		return toolLabel(name)
	}
}

const summaryLimit = 200

// resultSummary condenses a tool payload into one human-readable line.
// Count-bearing payloads become "Found N ..."; specific tools report the
// title or heading they touched; otherwise the payload's message field is
// used, truncated. An empty return means no summary is shown.
func resultSummary(name string, payload map[string]any) string {
	if payload == nil {
		return ""
	}
	if errMsg, ok := payload["error"].(string); ok {
		return truncate(errMsg, summaryLimit)
	}

	switch name {
	case "list_files":
		if n, ok := payloadCount(payload, "count"); ok {
			return fmt.Sprintf("Found %d files", n)
		}
	case "search_files":
		if n, ok := payloadCount(payload, "count"); ok {
			if q, _ := payload["query"].(string); q != "" {
				return fmt.Sprintf("Found %d results for %q", n, q)
			}
			return fmt.Sprintf("Found %d results", n)
		}
	case "open_file":
		if title, ok := payload["title"].(string); ok && title != "" {
			return fmt.Sprintf("Opened %q", title)
		}
	case "copy_section":
		if heading, ok := payload["heading"].(string); ok && heading != "" {
			return fmt.Sprintf("Copied %q", heading)
		}
	case "fetch_google_doc":
		if title, ok := payload["title"].(string); ok && title != "" {
			return fmt.Sprintf("Fetched %q", title)
		}
	case "create_document":
		if title, ok := payload["title"].(string); ok && title != "" {
			return fmt.Sprintf("Created %q", title)
		}
	case "update_document":
		if id, ok := payload["documentId"].(string); ok && id != "" {
			return fmt.Sprintf("Updated %s", id)
		}
	case "create_enlighten_assignment":
		if title, ok := payload["title"].(string); ok && title != "" {
			return fmt.Sprintf("Created assignment %q", title)
		}
	}

	if msg, ok := payload["message"].(string); ok && msg != "" {
		return truncate(msg, summaryLimit)
	}
	return ""
}

// payloadCount reads a numeric field that may be an int (in-process) or a
// float64 (after a JSON round trip).
func payloadCount(payload map[string]any, key string) (int, bool) {
	switch v := payload[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func inputString(input map[string]any, key string) string {
	if input == nil {
		return ""
	}
	if s, ok := input[key].(string); ok {
		return s
	}
	return ""
}
