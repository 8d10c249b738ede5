package main

import (
	"context"
	"fmt"
	"time"

	"poli-assistant/internal/config"
	"poli-assistant/internal/model"
	"poli-assistant/internal/repository"
	"poli-assistant/internal/service"

	"go.uber.org/zap"
)

// application holds the wired dialogue stack shared by the server and the REPL
type application struct {
	chat     *service.ChatService
	sessions *service.SessionStore
	repo     *repository.PostgresRepository
}

// bootstrap loads the room dataset and wires every dialogue collaborator
func bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	app := &application{}

	if cfg.UsesPostgres() {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.repo = repo
		logger.Info("✅ Connected to PostgreSQL database")

		if err := repo.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	rooms, err := loadRooms(ctx, cfg, app.repo)
	if err != nil {
		app.Close()
		return nil, err
	}
	logger.Info("✅ Room dataset loaded",
		zap.String("source", cfg.Dataset.Source),
		zap.Int("rooms", len(rooms)))
	if len(rooms) == 0 {
		logger.Warn("⚠️  Room dataset is empty - every lookup will miss")
	}

	client := service.NewOpenAIClient(&cfg.OpenAI, logger)
	if client.IsEnabled() {
		logger.Info("✅ Generation client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.Int("concurrency", cfg.OpenAI.Concurrency),
			zap.Int("timeout_seconds", cfg.OpenAI.Timeout))
	} else {
		logger.Warn("⚠️  Generation is disabled - persona replies are unavailable and extraction is pattern-only",
			zap.String("hint", "set OPENAI_API_KEY, or LLM_ALLOW_NO_KEY=true for a local server"))
	}

	queue := service.NewGenerationQueue(client, cfg.OpenAI.Concurrency, time.Duration(cfg.OpenAI.Timeout)*time.Second, logger)
	chooser := service.NewChooser(cfg.Dialogue.RandomSeed)

	app.sessions = service.NewSessionStore(
		cfg.Session.TTL,
		cfg.Session.MaxSessions,
		cfg.Session.CleanupInterval,
		logger,
	)

	var turnLog service.TurnLogger
	if cfg.PostgreSQL.TurnLogEnabled && app.repo != nil {
		turnLog = app.repo
		logger.Info("✅ Turn log enabled")
	}

	app.chat = service.NewChatService(
		app.sessions,
		service.NewIntentClassifier(),
		service.NewSlotExtractor(service.NewGenerativeExtractor(queue, logger)),
		service.NewRoomDirectory(rooms, chooser),
		service.NewResponseComposer(chooser, cfg.Dialogue.SupportedBuilding),
		queue,
		turnLog,
		service.ChatOptions{
			SupportedBuilding: cfg.Dialogue.SupportedBuilding,
			HistoryBudget:     cfg.Session.HistoryBudget,
			AbandonReply:      cfg.Dialogue.AbandonReply,
		},
		logger,
	)

	logger.Info("✅ Services initialized")
	return app, nil
}

func loadRooms(ctx context.Context, cfg *config.Config, repo *repository.PostgresRepository) ([]model.RoomRecord, error) {
	switch cfg.Dataset.Source {
	case "postgres":
		rooms, err := repo.LoadRooms(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load rooms from database: %w", err)
		}
		return rooms, nil
	default:
		rooms, err := repository.LoadRoomsFile(cfg.Dataset.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load rooms from %s: %w", cfg.Dataset.Path, err)
		}
		return rooms, nil
	}
}

// Close drains pending turn log writes and releases the database connection, if any
func (a *application) Close() {
	if a.chat != nil {
		a.chat.Close()
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
}
