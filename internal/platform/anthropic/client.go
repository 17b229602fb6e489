package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
)

// Client is the hosted-LLM capability consumed by the chat loop: send a
// conversation plus tool schemas, receive an assistant turn. Both a one-shot
// and a streamed call are supported; the streamed call surfaces text deltas
// through onText and still returns the finalized turn.
type Client interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)
	StreamMessage(ctx context.Context, req MessageRequest, onText func(delta string)) (*MessageResponse, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	APIKey  string
	BaseURL string
	// HTTPClient overrides the default transport; nil uses http.DefaultClient
	// semantics with no client-level timeout (per-call deadlines come from ctx
	// so streaming bodies are not cut off mid-read).
	HTTPClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing ANTHROPIC_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &client{
		log:        log.With("client", "AnthropicClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: hc,
	}, nil
}

func (c *client) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	req.Stream = false
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, readAPIError(resp)
	}

	var out MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode anthropic response: %w", err)
	}
	return &out, nil
}

func (c *client) StreamMessage(ctx context.Context, req MessageRequest, onText func(delta string)) (*MessageResponse, error) {
	req.Stream = true
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, readAPIError(resp)
	}

	asm := newStreamAssembler(onText)
	if err := consumeSSE(ctx, resp.Body, asm.handle); err != nil {
		return nil, err
	}
	return asm.finalize()
}

func (c *client) do(ctx context.Context, payload MessageRequest) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode anthropic request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("create anthropic request: %w", err)
	}
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(httpReq)
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic api status %d: %w", resp.StatusCode, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	var apiErr ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return APIError{StatusCode: resp.StatusCode, Type: apiErr.Error.Type, Message: apiErr.Error.Message}
	}
	return APIError{StatusCode: resp.StatusCode, Message: string(body)}
}

// streamAssembler folds the SSE event sequence back into a finalized
// MessageResponse. Tool-use inputs may arrive as incrementally streamed
// partial_json fragments; the buffered fragment is parsed at block stop and
// only falls back to the input carried by content_block_start when the
// buffer does not parse.
type streamAssembler struct {
	onText   func(string)
	final    MessageResponse
	started  bool
	blocks   map[int]*ContentBlock
	jsonBufs map[int]*strings.Builder
	order    []int
}

func newStreamAssembler(onText func(string)) *streamAssembler {
	return &streamAssembler{
		onText:   onText,
		blocks:   make(map[int]*ContentBlock),
		jsonBufs: make(map[int]*strings.Builder),
	}
}

func (a *streamAssembler) handle(_ string, data string) error {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}
	var envelope streamEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("decode anthropic stream envelope: %w", err)
	}

	switch envelope.Type {
	case "message_start":
		var ev messageStartEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return fmt.Errorf("decode message_start: %w", err)
		}
		a.final = ev.Message
		a.final.Content = nil
		a.started = true

	case "content_block_start":
		var ev contentBlockStartEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return fmt.Errorf("decode content_block_start: %w", err)
		}
		block := ev.ContentBlock
		a.blocks[ev.Index] = &block
		a.order = append(a.order, ev.Index)
		if block.Type == "tool_use" {
			a.jsonBufs[ev.Index] = &strings.Builder{}
		}

	case "content_block_delta":
		var ev contentBlockDeltaEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return fmt.Errorf("decode content_block_delta: %w", err)
		}
		block, ok := a.blocks[ev.Index]
		if !ok {
			return nil
		}
		switch ev.Delta.Type {
		case "text_delta":
			block.Text += ev.Delta.Text
			if a.onText != nil && ev.Delta.Text != "" {
				a.onText(ev.Delta.Text)
			}
		case "input_json_delta":
			if buf, ok := a.jsonBufs[ev.Index]; ok {
				buf.WriteString(ev.Delta.PartialJSON)
			}
		}

	case "content_block_stop":
		var ev contentBlockStopEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return fmt.Errorf("decode content_block_stop: %w", err)
		}
		block, ok := a.blocks[ev.Index]
		if !ok {
			return nil
		}
		if buf, hasBuf := a.jsonBufs[ev.Index]; hasBuf && buf.Len() > 0 {
			var input map[string]any
			if err := json.Unmarshal([]byte(buf.String()), &input); err == nil {
				block.Input = input
			}
		}

	case "message_delta":
		var ev messageDeltaEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return fmt.Errorf("decode message_delta: %w", err)
		}
		if ev.Delta.StopReason != nil {
			a.final.StopReason = *ev.Delta.StopReason
		}
		if ev.Usage != nil {
			if ev.Usage.InputTokens > 0 {
				a.final.Usage.InputTokens = ev.Usage.InputTokens
			}
			if ev.Usage.OutputTokens > 0 {
				a.final.Usage.OutputTokens = ev.Usage.OutputTokens
			}
		}

	case "message_stop", "ping":
		// Nothing to fold.
	}
	return nil
}

func (a *streamAssembler) finalize() (*MessageResponse, error) {
	if !a.started {
		return nil, fmt.Errorf("anthropic stream ended before message_start")
	}
	for _, idx := range a.order {
		a.final.Content = append(a.final.Content, *a.blocks[idx])
	}
	if a.final.Role == "" {
		a.final.Role = "assistant"
	}
	return &a.final, nil
}
