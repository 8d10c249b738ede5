package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// HealthHandler reports service readiness
type HealthHandler struct {
	assistant Assistant
	build     BuildInfo
	now       func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(assistant Assistant, build BuildInfo) *HealthHandler {
	return &HealthHandler{
		assistant: assistant,
		build:     build,
		now:       time.Now,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	stats := h.assistant.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":          "active",
		"model_loaded":    stats.ModelLoaded,
		"rooms_loaded":    stats.RoomsLoaded,
		"active_sessions": stats.ActiveSessions,
	})
}

// APIHealth handles GET /api/health
func (h *HealthHandler) APIHealth(c *gin.Context) {
	stats := h.assistant.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"model_loaded":    stats.ModelLoaded,
		"database_loaded": stats.RoomsLoaded > 0,
		"timestamp":       float64(h.now().UnixNano()) / 1e9,
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "poli-assistant",
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}
