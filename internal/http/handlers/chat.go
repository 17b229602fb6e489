package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novelpartners/curriculum-assistant/internal/http/response"
	"github.com/novelpartners/curriculum-assistant/internal/logger"
	"github.com/novelpartners/curriculum-assistant/internal/services"
	"github.com/novelpartners/curriculum-assistant/internal/stream"
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// ChatHandler serves both delivery modes of the chat turn: a buffered JSON
// response and an incremental event stream. Both run the same ChatService
// loop against different sinks.
type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:  log.With("handler", "ChatHandler"),
		chat: chat,
	}
}

// Chat handles POST /api/chat. The loop runs to completion against an
// in-memory collector and the finalized result is returned as one JSON body.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.Messages) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("messages must not be empty"))
		return
	}

	result, err := h.chat.Run(c.Request.Context(), req, stream.NewCollector())
	if err != nil {
		h.log.Error("Chat request failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "chat_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// ChatStream handles POST /api/chat/stream. Events are flushed to the client
// as the loop produces them; once streaming has begun, failures surface as a
// terminal error event rather than an HTTP status.
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.Messages) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("messages must not be empty"))
		return
	}

	sink, err := stream.NewSSESink(c.Writer)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "streaming_unsupported", err)
		return
	}

	if _, err := h.chat.Run(c.Request.Context(), req, sink); err != nil {
		h.log.Error("Chat stream failed", "error", err)
		_ = sink.Send(stream.Error(err.Error()))
	}
}
