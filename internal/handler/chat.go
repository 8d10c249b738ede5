package handler

import (
	"context"
	"net/http"

	"poli-assistant/internal/model"
	"poli-assistant/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Assistant is the dialogue surface the HTTP layer drives
type Assistant interface {
	HandleTurn(ctx context.Context, req *model.ChatRequest) *model.ChatResponse
	Stats() model.ServiceStats
	SessionSnapshot(id string) (model.SessionSnapshot, bool)
	ResetSession(id string) bool
}

var _ Assistant = (*service.ChatService)(nil)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	assistant Assistant
	logger    *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant Assistant, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Predict handles POST /predict and POST /api/v1/chat
func (h *ChatHandler) Predict(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response := h.assistant.HandleTurn(c.Request.Context(), &req)
	c.JSON(http.StatusOK, response)
}

// RateLimit rejects chat requests above limit per second with bursts up to burst.
// A non-positive limit disables the check.
func RateLimit(limit float64, burst int, logger *zap.Logger) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.Warn("Chat request rate limited", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down"})
			return
		}
		c.Next()
	}
}
