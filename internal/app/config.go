package app

import (
	"time"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/utils"
)

type Config struct {
	Port string

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	MaxTokens        int

	MaxToolLoops       int
	LLMTimeout         time.Duration
	SuggestionsEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	apiKey := utils.GetEnv("ANTHROPIC_API_KEY", "", log)
	baseURL := utils.GetEnv("ANTHROPIC_BASE_URL", "", log)
	model := utils.GetEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514", log)
	maxTokens := utils.GetEnvAsInt("ANTHROPIC_MAX_TOKENS", 4096, log)
	maxLoops := utils.GetEnvAsInt("CHAT_MAX_TOOL_LOOPS", 10, log)
	llmTimeoutSeconds := utils.GetEnvAsInt("CHAT_LLM_TIMEOUT", 120, log)
	suggestions := utils.GetEnvAsBool("CHAT_SUGGESTIONS_ENABLED", true, log)

	return Config{
		Port:               port,
		AnthropicAPIKey:    apiKey,
		AnthropicBaseURL:   baseURL,
		AnthropicModel:     model,
		MaxTokens:          maxTokens,
		MaxToolLoops:       maxLoops,
		LLMTimeout:         time.Duration(llmTimeoutSeconds) * time.Second,
		SuggestionsEnabled: suggestions,
	}
}
