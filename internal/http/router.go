package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/novelpartners/curriculum-assistant/internal/http/handlers"
	httpMW "github.com/novelpartners/curriculum-assistant/internal/http/middleware"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	ChatHandler   *httpH.ChatHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ChatHandler != nil {
			api.POST("/chat", cfg.ChatHandler.Chat)
			api.POST("/chat/stream", cfg.ChatHandler.ChatStream)
		}
	}

	return r
}
