package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/novelpartners/curriculum-assistant/internal/artifacts"
	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/platform/anthropic"
	"github.com/novelpartners/curriculum-assistant/internal/stream"
	"github.com/novelpartners/curriculum-assistant/internal/tools"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// ChatService runs one assistant turn end to end: the model/tool loop, the
// artifact store, the event stream, and the optional follow-up suggestion
// call. Both chat endpoints call Run with a different sink.
type ChatService interface {
	Run(ctx context.Context, req types.ChatRequest, sink stream.Sink) (*types.ChatResult, error)
}

// ChatConfig bounds one chat request.
type ChatConfig struct {
	Model              string
	MaxTokens          int
	MaxToolLoops       int
	LLMTimeout         time.Duration
	SuggestionsEnabled bool
}

type chatService struct {
	log         *logger.Logger
	llm         anthropic.Client
	registry    *tools.Registry
	store       *curriculum.Store
	suggestions SuggestionService
	cfg         ChatConfig
}

func NewChatService(
	log *logger.Logger,
	llm anthropic.Client,
	registry *tools.Registry,
	store *curriculum.Store,
	suggestions SuggestionService,
	cfg ChatConfig,
) ChatService {
	if cfg.MaxToolLoops <= 0 {
		cfg.MaxToolLoops = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	return &chatService{
		log:         log.With("service", "ChatService"),
		llm:         llm,
		registry:    registry,
		store:       store,
		suggestions: suggestions,
		cfg:         cfg,
	}
}

func (s *chatService) Run(ctx context.Context, req types.ChatRequest, sink stream.Sink) (*types.ChatResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("chat request has no messages")
	}

	artStore := artifacts.NewStore()
	if req.CurrentArtifact != nil {
		artStore.Merge(*req.CurrentArtifact)
	}

	conversation := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		conversation = append(conversation, anthropic.MessageParam{
			Role:    m.Role,
			Content: []anthropic.ContentBlock{{Type: "text", Text: m.Content}},
		})
	}

	toolDefs := s.toolDefinitions()
	system := s.systemPrompt()

	var (
		responseText strings.Builder
		toolCalls    []types.ToolCall
		usage        types.Usage
	)

	if err := sink.Send(stream.Status("Thinking through your request...")); err != nil {
		return nil, err
	}

	for loop := 1; loop <= s.cfg.MaxToolLoops; loop++ {
		resp, err := s.callModel(ctx, anthropic.MessageRequest{
			Model:     s.cfg.Model,
			MaxTokens: s.cfg.MaxTokens,
			System:    system,
			Messages:  conversation,
			Tools:     toolDefs,
		}, sink)
		if err != nil {
			return nil, err
		}

		usage.InputTokens += resp.Usage.InputTokens
		usage.OutputTokens += resp.Usage.OutputTokens
		for _, block := range resp.Content {
			if block.Type == "text" {
				responseText.WriteString(block.Text)
			}
		}

		// The finalized assistant turn goes back verbatim, then every
		// tool_use block is executed in order and answered in a single
		// user turn of tool_result blocks.
		conversation = append(conversation, anthropic.MessageParam{
			Role:    "assistant",
			Content: resp.Content,
		})

		var results []anthropic.ContentBlock
		for _, block := range resp.Content {
			if block.Type != "tool_use" {
				continue
			}
			result, err := s.runTool(ctx, block, sink, artStore, &toolCalls)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}

		if len(results) > 0 {
			conversation = append(conversation, anthropic.MessageParam{
				Role:    "user",
				Content: results,
			})
			if artStore.Len() > 0 {
				if err := sink.Send(stream.ArtifactUpdate(artStore.List(), artStore.ActiveID())); err != nil {
					return nil, err
				}
			}
		}

		if !(resp.HasToolUse() && resp.StopReason == "tool_use") {
			break
		}
		if loop < s.cfg.MaxToolLoops {
			if err := sink.Send(stream.Status("Working with the results...")); err != nil {
				return nil, err
			}
		}
	}

	var followUps []string
	if s.cfg.SuggestionsEnabled && s.suggestions != nil {
		followUps = s.suggestions.Generate(ctx, req.Messages, responseText.String())
	}

	result := &types.ChatResult{
		Response:            responseText.String(),
		ToolCalls:           toolCalls,
		Artifact:            artStore.Active(),
		ArtifactList:        artStore.List(),
		FollowUpSuggestions: followUps,
		Usage:               usage,
		CreatedAt:           time.Now().UTC(),
	}
	if err := sink.Send(stream.Complete(*result)); err != nil {
		return nil, err
	}
	return result, nil
}

// callModel runs one streamed model call under the per-call deadline,
// forwarding text deltas to the sink as token events.
func (s *chatService) callModel(ctx context.Context, req anthropic.MessageRequest, sink stream.Sink) (*anthropic.MessageResponse, error) {
	callCtx := ctx
	if s.cfg.LLMTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.LLMTimeout)
		defer cancel()
	}

	var sinkErr error
	resp, err := s.llm.StreamMessage(callCtx, req, func(delta string) {
		if sinkErr == nil {
			sinkErr = sink.Send(stream.Token(delta))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if sinkErr != nil {
		return nil, sinkErr
	}
	return resp, nil
}

// runTool executes one tool_use block: lifecycle events around execution,
// artifact side channel merged into the store, result JSON answered back to
// the model. A registry error (unknown tool, missing required field) fails
// the whole request.
func (s *chatService) runTool(
	ctx context.Context,
	block anthropic.ContentBlock,
	sink stream.Sink,
	artStore *artifacts.Store,
	toolCalls *[]types.ToolCall,
) (anthropic.ContentBlock, error) {
	call := types.ToolCall{ID: block.ID, Name: block.Name, Input: block.Input}
	label := toolLabel(block.Name)
	description := toolDescription(block.Name, block.Input)

	if err := sink.Send(stream.ToolStart(call, label, description)); err != nil {
		return anthropic.ContentBlock{}, err
	}

	s.log.Info("Executing tool", "tool", block.Name, "id", block.ID)
	result, err := s.registry.Execute(ctx, block.Name, block.Input)
	if err != nil {
		return anthropic.ContentBlock{}, fmt.Errorf("tool %s failed: %w", block.Name, err)
	}

	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return anthropic.ContentBlock{}, fmt.Errorf("encode tool result: %w", err)
	}

	call.Result = result.Payload
	*toolCalls = append(*toolCalls, call)

	for _, a := range result.Artifacts {
		artStore.Merge(a)
	}

	if err := sink.Send(stream.ToolResult(call, label, description, resultSummary(block.Name, result.Payload))); err != nil {
		return anthropic.ContentBlock{}, err
	}

	return anthropic.ContentBlock{
		Type:      "tool_result",
		ToolUseID: block.ID,
		Content:   string(payload),
	}, nil
}

func (s *chatService) toolDefinitions() []anthropic.ToolDefinition {
	defs := s.registry.Definitions()
	out := make([]anthropic.ToolDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, anthropic.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: anthropic.InputSchema{
				Type:       d.InputSchema.Type,
				Properties: d.InputSchema.Properties,
				Required:   d.InputSchema.Required,
			},
		})
	}
	return out
}

func (s *chatService) systemPrompt() string {
	var courses, units strings.Builder
	for _, c := range s.store.Courses() {
		fmt.Fprintf(&courses, "- %s (Grade %s)\n", c.Name, c.Grade)
	}
	for _, u := range s.store.Units() {
		fmt.Fprintf(&units, "- Unit %d: %s\n", u.Number, u.Title)
	}

	return fmt.Sprintf(`You are a specialized curriculum assistant for Novel Partners ELA materials. You help teachers plan lessons, adapt materials, create assessments, and work with the Novel Partners curriculum.

You have access to Novel Partners curriculum files for Grade 9 English I - Foundations of Literature, specifically the Binti unit by Nnedi Okorafor.

Available Courses:
%s
Available Units:
%s
When helping teachers:
1. Always ground your responses in the actual curriculum files using the tools available
2. Use fetch_google_doc when a file links to a live Google Doc and you need its current content
3. Provide specific citations to files, sections, and page numbers
4. When creating documents, use the create_document tool to display them in the artifacts panel
5. When copying curriculum text, use copy_section to get verbatim text
6. When adapting materials, clearly state what changes you're making and why
7. For ELL adaptations, include:
   - Simplified vocabulary where appropriate
   - Sentence frames for writing tasks
   - Visual supports when relevant
8. For assessments, align to the performance task rubric and standards

Be conversational, helpful, and teacher-focused. You're here to save teachers time and help them create excellent learning experiences.`,
		courses.String(), units.String())
}
