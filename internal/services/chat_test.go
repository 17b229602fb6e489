package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/platform/anthropic"
	"github.com/novelpartners/curriculum-assistant/internal/stream"
	"github.com/novelpartners/curriculum-assistant/internal/tools"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

type fakeLLM struct {
	streamFn    func(call int, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
	createFn    func(req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
	streamCalls int
	createCalls int
	lastRequest anthropic.MessageRequest
}

func (f *fakeLLM) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.createCalls++
	if f.createFn == nil {
		return nil, errors.New("no create behavior configured")
	}
	return f.createFn(req)
}

func (f *fakeLLM) StreamMessage(_ context.Context, req anthropic.MessageRequest, onText func(string)) (*anthropic.MessageResponse, error) {
	f.streamCalls++
	f.lastRequest = req
	resp, err := f.streamFn(f.streamCalls, req)
	if err != nil {
		return nil, err
	}
	if onText != nil {
		for _, block := range resp.Content {
			if block.Type == "text" && block.Text != "" {
				onText(block.Text)
			}
		}
	}
	return resp, nil
}

func textTurn(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Role:       "assistant",
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      anthropic.Usage{InputTokens: 100, OutputTokens: 20},
	}
}

func toolTurn(text, toolID, toolName string, input map[string]any) *anthropic.MessageResponse {
	content := []anthropic.ContentBlock{}
	if text != "" {
		content = append(content, anthropic.ContentBlock{Type: "text", Text: text})
	}
	content = append(content, anthropic.ContentBlock{Type: "tool_use", ID: toolID, Name: toolName, Input: input})
	return &anthropic.MessageResponse{
		Role:       "assistant",
		Content:    content,
		StopReason: "tool_use",
		Usage:      anthropic.Usage{InputTokens: 100, OutputTokens: 20},
	}
}

func newTestChatService(t *testing.T, llm anthropic.Client, cfg ChatConfig) ChatService {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	store, err := curriculum.NewStore()
	require.NoError(t, err)
	registry := tools.NewRegistry(log, store, nil)
	if cfg.Model == "" {
		cfg.Model = "test-model"
	}
	return NewChatService(log, llm, registry, store, nil, cfg)
}

func userRequest(content string) types.ChatRequest {
	return types.ChatRequest{Messages: []types.ChatMessage{{Role: "user", Content: content}}}
}

func eventTypes(events []stream.Event) []stream.EventType {
	out := make([]stream.EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func TestRunSingleTurnNoTools(t *testing.T) {
	llm := &fakeLLM{streamFn: func(int, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textTurn("Binti is a novella by Nnedi Okorafor."), nil
	}}
	svc := newTestChatService(t, llm, ChatConfig{})
	sink := stream.NewCollector()

	result, err := svc.Run(context.Background(), userRequest("What is Binti?"), sink)
	require.NoError(t, err)

	assert.Equal(t, 1, llm.streamCalls)
	assert.Equal(t, "Binti is a novella by Nnedi Okorafor.", result.Response)
	assert.Empty(t, result.ToolCalls)
	assert.Nil(t, result.Artifact)
	assert.Equal(t, 100, result.Usage.InputTokens)
	assert.Equal(t, 20, result.Usage.OutputTokens)

	events := sink.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, stream.EventStatus, events[0].Type)
	assert.Equal(t, stream.EventComplete, events[len(events)-1].Type)
	assert.Contains(t, eventTypes(events), stream.EventToken)
}

func TestRunToolLoopProducesArtifact(t *testing.T) {
	llm := &fakeLLM{streamFn: func(call int, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		if call == 1 {
			return toolTurn("Let me open that guide.", "toolu_1", "open_file",
				map[string]any{"fileId": "resource-1"}), nil
		}
		return textTurn("Here is the Lesson 1 Teacher Guide."), nil
	}}
	svc := newTestChatService(t, llm, ChatConfig{})
	sink := stream.NewCollector()

	result, err := svc.Run(context.Background(), userRequest("Show me the teacher guide for Unit 1 Lesson 1"), sink)
	require.NoError(t, err)

	assert.Equal(t, 2, llm.streamCalls)
	assert.Equal(t, "Let me open that guide.Here is the Lesson 1 Teacher Guide.", result.Response)

	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "open_file", result.ToolCalls[0].Name)
	require.NotNil(t, result.ToolCalls[0].Result)

	require.NotNil(t, result.Artifact)
	assert.Equal(t, "resource-resource-1", result.Artifact.ID)
	assert.Equal(t, types.ArtifactLessonPlan, result.Artifact.Type)
	assert.Equal(t, "Lesson 1 Teacher Guide", result.Artifact.Title)
	assert.Len(t, result.ArtifactList, 1)

	// Usage accumulates across both model calls.
	assert.Equal(t, 200, result.Usage.InputTokens)

	kinds := eventTypes(sink.Events())
	assert.Contains(t, kinds, stream.EventToolStart)
	assert.Contains(t, kinds, stream.EventToolResult)
	assert.Contains(t, kinds, stream.EventArtifactUpdate)
	assert.Equal(t, stream.EventComplete, kinds[len(kinds)-1])

	// The tool answer goes back to the model as a tool_result block.
	require.GreaterOrEqual(t, len(llm.lastRequest.Messages), 3)
	last := llm.lastRequest.Messages[len(llm.lastRequest.Messages)-1]
	assert.Equal(t, "user", last.Role)
	require.Len(t, last.Content, 1)
	assert.Equal(t, "tool_result", last.Content[0].Type)
	assert.Equal(t, "toolu_1", last.Content[0].ToolUseID)
	assert.Contains(t, last.Content[0].Content, "Lesson 1 Teacher Guide")
}

func TestRunStopsAtLoopCap(t *testing.T) {
	llm := &fakeLLM{streamFn: func(call int, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return toolTurn("", "toolu", "list_files", map[string]any{}), nil
	}}
	svc := newTestChatService(t, llm, ChatConfig{})
	sink := stream.NewCollector()

	result, err := svc.Run(context.Background(), userRequest("loop forever"), sink)
	require.NoError(t, err)

	// The cap is a silent safety bound, not an error.
	assert.Equal(t, 10, llm.streamCalls)
	assert.Len(t, result.ToolCalls, 10)
	events := sink.Events()
	assert.Equal(t, stream.EventComplete, events[len(events)-1].Type)
}

func TestRunEarlyExitWithoutToolUse(t *testing.T) {
	llm := &fakeLLM{streamFn: func(call int, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		if call == 1 {
			// Tool requested but the model already stopped for another reason.
			resp := toolTurn("", "toolu_1", "list_files", map[string]any{})
			resp.StopReason = "end_turn"
			return resp, nil
		}
		return nil, errors.New("should not be called again")
	}}
	svc := newTestChatService(t, llm, ChatConfig{})

	result, err := svc.Run(context.Background(), userRequest("hi"), stream.NewCollector())
	require.NoError(t, err)
	assert.Equal(t, 1, llm.streamCalls)
	assert.Len(t, result.ToolCalls, 1)
}

func TestRunUnknownToolFailsRequest(t *testing.T) {
	llm := &fakeLLM{streamFn: func(int, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return toolTurn("", "toolu_1", "no_such_tool", map[string]any{}), nil
	}}
	svc := newTestChatService(t, llm, ChatConfig{})

	_, err := svc.Run(context.Background(), userRequest("hi"), stream.NewCollector())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestRunCurrentArtifactSeedsStore(t *testing.T) {
	llm := &fakeLLM{streamFn: func(int, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textTurn("ok"), nil
	}}
	svc := newTestChatService(t, llm, ChatConfig{})

	req := userRequest("continue editing")
	req.CurrentArtifact = &types.Artifact{ID: "doc-1", Type: types.ArtifactHandout, Title: "Existing"}

	result, err := svc.Run(context.Background(), req, stream.NewCollector())
	require.NoError(t, err)

	require.Len(t, result.ArtifactList, 1)
	assert.Equal(t, "doc-1", result.ArtifactList[0].ID)
	require.NotNil(t, result.Artifact)
	assert.Equal(t, "Existing", result.Artifact.Title)
}

func TestRunEmptyMessagesRejected(t *testing.T) {
	svc := newTestChatService(t, &fakeLLM{}, ChatConfig{})

	_, err := svc.Run(context.Background(), types.ChatRequest{}, stream.NewCollector())
	require.Error(t, err)
}

func TestRunModelErrorPropagates(t *testing.T) {
	llm := &fakeLLM{streamFn: func(int, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return nil, anthropic.APIError{StatusCode: 529, Message: "overloaded"}
	}}
	svc := newTestChatService(t, llm, ChatConfig{})

	_, err := svc.Run(context.Background(), userRequest("hi"), stream.NewCollector())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestRunToolSchemaMirrorsRegistry(t *testing.T) {
	llm := &fakeLLM{streamFn: func(int, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return textTurn("ok"), nil
	}}
	svc := newTestChatService(t, llm, ChatConfig{})

	_, err := svc.Run(context.Background(), userRequest("hi"), stream.NewCollector())
	require.NoError(t, err)

	require.NotEmpty(t, llm.lastRequest.Tools)
	var names []string
	for _, d := range llm.lastRequest.Tools {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "open_file")
	assert.Contains(t, names, "create_document")

	for _, d := range llm.lastRequest.Tools {
		if d.Name == "search_files" {
			assert.Equal(t, []string{"query"}, d.InputSchema.Required)
		}
	}
}
