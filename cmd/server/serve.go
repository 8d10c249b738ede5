package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"poli-assistant/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Poli campus assistant",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	app, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	app.sessions.Start(ctx)
	defer app.sessions.Stop()

	router := newRouter(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("🚀 Starting server", zap.String("addr", addr))
	logger.Info("📝 API endpoints",
		zap.Strings("routes", []string{
			"POST /predict - main chat endpoint",
			"POST /api/v1/chat - chat endpoint alias",
			"GET  /api/health - health check",
			"GET  / - service info",
			"GET  /metrics - Prometheus metrics",
		}))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("✅ Server stopped")
	return nil
}

func newRouter(app *application) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	chatHandler := handler.NewChatHandler(app.chat, logger)
	healthHandler := handler.NewHealthHandler(app.chat, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})
	limited := handler.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst, logger)

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/version", healthHandler.Version)
	router.GET("/api/health", healthHandler.APIHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Legacy frontend contract
	router.POST("/predict", limited, chatHandler.Predict)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", limited, chatHandler.Predict)
		if cfg.Server.SessionAPIEnabled {
			sessionHandler := handler.NewSessionHandler(app.chat)
			apiV1.GET("/sessions/:id", sessionHandler.Get)
			apiV1.DELETE("/sessions/:id", sessionHandler.Delete)
			logger.Warn("⚠️  Session API enabled - history is readable without authentication")
		}
	}

	// Serve the map frontend, if one is configured
	setupStaticFiles(router, cfg.Server.WebDir)

	return router
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
