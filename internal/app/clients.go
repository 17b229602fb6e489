package app

import (
	"fmt"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/platform/anthropic"
	"github.com/novelpartners/curriculum-assistant/internal/platform/googledocs"
)

type Clients struct {
	LLM  anthropic.Client
	Docs googledocs.Fetcher
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	llm, err := anthropic.NewClient(log, anthropic.Config{
		APIKey:  cfg.AnthropicAPIKey,
		BaseURL: cfg.AnthropicBaseURL,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init anthropic client: %w", err)
	}

	docs := googledocs.NewFetcher(log, nil, "")

	return Clients{LLM: llm, Docs: docs}, nil
}
