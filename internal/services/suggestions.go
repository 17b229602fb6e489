package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/platform/anthropic"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// SuggestionService produces 3-4 follow-up questions a teacher might ask
// next. It runs after the main loop and must never fail the overall request;
// any error degrades to an empty list.
type SuggestionService interface {
	Generate(ctx context.Context, messages []types.ChatMessage, response string) []string
}

type suggestionService struct {
	log   *logger.Logger
	llm   anthropic.Client
	model string
}

func NewSuggestionService(log *logger.Logger, llm anthropic.Client, model string) SuggestionService {
	return &suggestionService{
		log:   log.With("service", "SuggestionService"),
		llm:   llm,
		model: model,
	}
}

const suggestionPrompt = `Based on the conversation below between a teacher and a curriculum assistant, suggest 3-4 short follow-up questions the teacher is likely to ask next. Respond with ONLY a JSON array of strings, no other text.

Conversation:
%s`

func (s *suggestionService) Generate(ctx context.Context, messages []types.ChatMessage, response string) []string {
	transcript := flattenTranscript(messages, response)

	resp, err := s.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{{
			Role: "user",
			Content: []anthropic.ContentBlock{{
				Type: "text",
				Text: fmt.Sprintf(suggestionPrompt, transcript),
			}},
		}},
	})
	if err != nil {
		s.log.Warn("Follow-up suggestion call failed", "error", err)
		return nil
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	suggestions := parseSuggestions(text.String())
	if suggestions == nil {
		s.log.Warn("Could not parse follow-up suggestions", "raw", truncate(text.String(), 120))
	}
	return suggestions
}

// parseSuggestions extracts a JSON string array from model output that may
// carry prose or code fences around it.
func parseSuggestions(raw string) []string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return nil
	}
	filtered := out[:0]
	for _, s := range out {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func flattenTranscript(messages []types.ChatMessage, response string) string {
	var b strings.Builder
	for _, m := range messages {
		role := "Teacher"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	if response != "" {
		b.WriteString("Assistant: ")
		b.WriteString(response)
		b.WriteString("\n")
	}
	return b.String()
}
