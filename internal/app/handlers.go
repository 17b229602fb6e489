package app

import (
	"github.com/novelpartners/curriculum-assistant/internal/http/handlers"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
)

type Handlers struct {
	Chat   *handlers.ChatHandler
	Health *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Chat:   handlers.NewChatHandler(log, services.Chat),
		Health: handlers.NewHealthHandler(),
	}
}
