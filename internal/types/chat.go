package types

import "time"

// ChatMessage is one turn of the browser-facing conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall records a single tool invocation requested by the model during a
// turn. Result is filled in place once execution finishes; entries are never
// retried or removed.
type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Input  map[string]any `json:"input"`
	Result any            `json:"result,omitempty"`
}

// ArtifactType tags a generated document in the artifacts panel.
type ArtifactType string

const (
	ArtifactDocument   ArtifactType = "document"
	ArtifactLessonPlan ArtifactType = "lesson_plan"
	ArtifactAssessment ArtifactType = "assessment"
	ArtifactHandout    ArtifactType = "handout"
)

// Artifact is a generated or referenced document surfaced outside the chat
// transcript. Content may be empty when the artifact is an external-link
// embed (ExternalURL/EmbedURL set instead).
type Artifact struct {
	ID          string         `json:"id"`
	Type        ArtifactType   `json:"type"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	ExternalURL string         `json:"externalUrl,omitempty"`
	EmbedURL    string         `json:"embedUrl,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Usage accumulates token counts across every model call of one request.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatRequest is the inbound body of both chat endpoints.
type ChatRequest struct {
	Messages        []ChatMessage `json:"messages"`
	CurrentArtifact *Artifact     `json:"currentArtifact,omitempty"`
}

// ChatResult is the buffered (non-streaming) response of the chat endpoint
// and the payload of the terminal "complete" stream event.
type ChatResult struct {
	Response            string     `json:"response"`
	ToolCalls           []ToolCall `json:"toolCalls"`
	Artifact            *Artifact  `json:"artifact"`
	ArtifactList        []Artifact `json:"artifactList"`
	FollowUpSuggestions []string   `json:"followUpSuggestions"`
	Usage               Usage      `json:"usage"`
	CreatedAt           time.Time  `json:"-"`
}
