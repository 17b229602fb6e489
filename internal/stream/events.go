package stream

import (
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// EventType discriminates the records a chat turn emits over the wire.
type EventType string

const (
	EventStatus         EventType = "status"
	EventToken          EventType = "token"
	EventToolStart      EventType = "tool_start"
	EventToolResult     EventType = "tool_result"
	EventArtifactUpdate EventType = "artifact_update"
	EventComplete       EventType = "complete"
	EventError          EventType = "error"
)

// Event is one record of the chat event stream. Only the fields relevant to
// its Type are populated; everything else is omitted from the wire form.
type Event struct {
	Type EventType `json:"type"`

	// status, error
	Message string `json:"message,omitempty"`

	// token
	Text string `json:"text,omitempty"`

	// tool_start, tool_result
	ToolCall      *types.ToolCall `json:"toolCall,omitempty"`
	Description   string          `json:"description,omitempty"`
	Label         string          `json:"label,omitempty"`
	ResultSummary string          `json:"resultSummary,omitempty"`

	// artifact_update
	Artifacts        []types.Artifact `json:"artifacts,omitempty"`
	ActiveArtifactID string           `json:"activeArtifactId,omitempty"`

	// complete
	Response            string           `json:"response,omitempty"`
	ToolCalls           []types.ToolCall `json:"toolCalls,omitempty"`
	Artifact            *types.Artifact  `json:"artifact,omitempty"`
	ArtifactList        []types.Artifact `json:"artifactList,omitempty"`
	FollowUpSuggestions []string         `json:"followUpSuggestions,omitempty"`
	Usage               *types.Usage     `json:"usage,omitempty"`
}

// Status reports transient progress shown as a single replaceable line.
func Status(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

// Token carries one chunk of streamed assistant text.
func Token(text string) Event {
	return Event{Type: EventToken, Text: text}
}

// ToolStart announces that a requested tool is about to run.
func ToolStart(call types.ToolCall, label, description string) Event {
	return Event{Type: EventToolStart, ToolCall: &call, Label: label, Description: description}
}

// ToolResult marks a tool execution finished, with a short human summary.
func ToolResult(call types.ToolCall, label, description, summary string) Event {
	return Event{Type: EventToolResult, ToolCall: &call, Label: label, Description: description, ResultSummary: summary}
}

// ArtifactUpdate pushes the current artifact list and active selection.
func ArtifactUpdate(artifacts []types.Artifact, activeID string) Event {
	return Event{Type: EventArtifactUpdate, Artifacts: artifacts, ActiveArtifactID: activeID}
}

// Complete closes the turn with the finalized chat result.
func Complete(result types.ChatResult) Event {
	return Event{
		Type:                EventComplete,
		Response:            result.Response,
		ToolCalls:           result.ToolCalls,
		Artifact:            result.Artifact,
		ArtifactList:        result.ArtifactList,
		FollowUpSuggestions: result.FollowUpSuggestions,
		Usage:               &result.Usage,
	}
}

// Error is the terminal event for a failed turn.
func Error(message string) Event {
	return Event{Type: EventError, Message: message}
}
