package app

import (
	"github.com/novelpartners/curriculum-assistant/internal/curriculum"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/services"
	"github.com/novelpartners/curriculum-assistant/internal/tools"
)

type Services struct {
	Chat        services.ChatService
	Suggestions services.SuggestionService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, store *curriculum.Store) (Services, error) {
	log.Info("Wiring services...")

	registry := tools.NewRegistry(log, store, clients.Docs)
	suggestions := services.NewSuggestionService(log, clients.LLM, cfg.AnthropicModel)

	chat := services.NewChatService(log, clients.LLM, registry, store, suggestions, services.ChatConfig{
		Model:              cfg.AnthropicModel,
		MaxTokens:          cfg.MaxTokens,
		MaxToolLoops:       cfg.MaxToolLoops,
		LLMTimeout:         cfg.LLMTimeout,
		SuggestionsEnabled: cfg.SuggestionsEnabled,
	})

	return Services{Chat: chat, Suggestions: suggestions}, nil
}
