package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes conversation sessions for support and debugging
type SessionHandler struct {
	assistant Assistant
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(assistant Assistant) *SessionHandler {
	return &SessionHandler{assistant: assistant}
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	snapshot, ok := h.assistant.SessionSnapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.assistant.ResetSession(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
