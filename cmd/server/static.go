package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves the built map frontend from dir with SPA fallback to index.html.
// Without a dir, unknown routes get a JSON hint instead.
func setupStaticFiles(router *gin.Engine, dir string) {
	if dir == "" {
		logger.Info("🔧 No WEB_DIR set - frontend is served separately")
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Frontend is running separately",
				"hint":    "Set WEB_DIR to a built frontend to serve it from here",
			})
		})
		return
	}

	logger.Info("📦 Serving frontend assets", zap.String("dir", dir))
	index := filepath.Join(dir, "index.html")

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path

		// Skip API routes (they are handled by other routes)
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		cleanPath := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
		file := filepath.Join(dir, filepath.FromSlash(cleanPath))
		if stat, err := os.Stat(file); err == nil && !stat.IsDir() {
			c.File(file)
			return
		}

		// File not found, serve index.html for SPA routing
		if _, err := os.Stat(index); err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.File(index)
	})
}
