package tools

import (
	"context"
	"fmt"

	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/platform/googledocs"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// Schema is the JSON-schema subset declared per tool and mirrored verbatim
// into the model request.
type Schema struct {
	Type       string
	Properties map[string]any
	Required   []string
}

// Definition describes one tool to the model.
type Definition struct {
	Name        string
	Description string
	InputSchema Schema
}

// Result is the outcome of one tool execution. Payload is what the model
// sees (JSON-marshaled into the tool_result block); Artifacts is the
// side-channel the loop merges into the per-request artifact store. Lookup
// failures are expressed as an "error" key inside Payload, not as a Go
// error; a returned error aborts the whole request.
type Result struct {
	Payload   map[string]any
	Artifacts []types.Artifact
}

// Tool is a single named operation the model may request.
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, args map[string]any) (*Result, error)
}

// ErrUnknownTool is returned when dispatch finds no tool for the requested
// name. It is fatal to the request rather than being fed back to the model.
type ErrUnknownTool struct{ Name string }

func (e ErrUnknownTool) Error() string { return fmt.Sprintf("unknown tool: %s", e.Name) }

// Registry holds the fixed tool catalogue and dispatches by exact name.
type Registry struct {
	log   *logger.Logger
	tools map[string]Tool
	order []string
}

// NewRegistry wires the full catalogue against the content store. The
// fetch_google_doc tool is registered only when a fetcher is provided.
func NewRegistry(log *logger.Logger, store *curriculum.Store, docs googledocs.Fetcher) *Registry {
	r := &Registry{
		log:   log.With("component", "ToolRegistry"),
		tools: make(map[string]Tool),
	}
	r.register(&listFilesTool{store: store})
	r.register(&searchFilesTool{store: store})
	r.register(&openFileTool{store: store})
	r.register(&copySectionTool{store: store})
	if docs != nil {
		r.register(&fetchGoogleDocTool{store: store, docs: docs})
	}
	r.register(&createDocumentTool{})
	r.register(&updateDocumentTool{})
	r.register(&createEnlightenAssignmentTool{})
	return r
}

func (r *Registry) register(t Tool) {
	name := t.Definition().Name
	r.tools[name] = t
	r.order = append(r.order, name)
}

// Definitions lists every declared tool in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Definition())
	}
	return out
}

// Execute validates required arguments and dispatches. Missing required
// fields fail closed before the tool runs.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (*Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, ErrUnknownTool{Name: name}
	}
	if args == nil {
		args = map[string]any{}
	}
	def := t.Definition()
	for _, field := range def.InputSchema.Required {
		if _, present := args[field]; !present {
			return nil, fmt.Errorf("tool %s: missing required field %q", name, field)
		}
	}
	r.log.Debug("Executing tool", "tool", name)
	return t.Execute(ctx, args)
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
