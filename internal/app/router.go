package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/novelpartners/curriculum-assistant/internal/http"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:           log,
		ChatHandler:   handlers.Chat,
		HealthHandler: handlers.Health,
	})
}
