package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/platform/anthropic"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

func newSuggestionService(t *testing.T, llm anthropic.Client) SuggestionService {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return NewSuggestionService(log, llm, "test-model")
}

func TestGenerateParsesSuggestions(t *testing.T) {
	llm := &fakeLLM{createFn: func(req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content[0].Text, "Teacher: Show me lesson 1")
		assert.Contains(t, req.Messages[0].Content[0].Text, "Assistant: Here it is.")
		return &anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{
				Type: "text",
				Text: `Here are some ideas: ["Adapt this for ELL students?", "Create an exit ticket", "Show the rubric"]`,
			}},
		}, nil
	}}
	svc := newSuggestionService(t, llm)

	got := svc.Generate(context.Background(),
		[]types.ChatMessage{{Role: "user", Content: "Show me lesson 1"}},
		"Here it is.")

	assert.Equal(t, []string{
		"Adapt this for ELL students?",
		"Create an exit ticket",
		"Show the rubric",
	}, got)
}

// A failed suggestion call degrades to no suggestions instead of failing the
// request.
func TestGenerateDegradesOnError(t *testing.T) {
	llm := &fakeLLM{createFn: func(anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return nil, errors.New("rate limited")
	}}
	svc := newSuggestionService(t, llm)

	got := svc.Generate(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, "resp")
	assert.Nil(t, got)
}

func TestGenerateDegradesOnUnparseableOutput(t *testing.T) {
	llm := &fakeLLM{createFn: func(anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
		return &anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: "I cannot produce JSON right now."}},
		}, nil
	}}
	svc := newSuggestionService(t, llm)

	got := svc.Generate(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, "resp")
	assert.Nil(t, got)
}

func TestParseSuggestions(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseSuggestions(`["a","b"]`))
	assert.Equal(t, []string{"a"}, parseSuggestions("```json\n[\"a\"]\n```"))
	assert.Nil(t, parseSuggestions("no array here"))
	assert.Nil(t, parseSuggestions(`[]`))
	assert.Nil(t, parseSuggestions(`["", "  "]`))
	assert.Nil(t, parseSuggestions(`[1, 2]`))
}
