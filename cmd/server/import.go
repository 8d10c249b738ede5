package main

import (
	"fmt"

	"poli-assistant/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importFile string

// importCmd copies a room dataset file into PostgreSQL for DATASET_SOURCE=postgres
var importCmd = &cobra.Command{
	Use:   "import-rooms",
	Short: "Load a JSON or YAML room dataset into PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := importFile
		if path == "" {
			path = cfg.Dataset.Path
		}

		rooms, err := repository.LoadRoomsFile(path)
		if err != nil {
			return fmt.Errorf("failed to load rooms from %s: %w", path, err)
		}

		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx := cmd.Context()
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := repo.ReplaceRooms(ctx, rooms); err != nil {
			return err
		}

		logger.Info("✅ Rooms imported", zap.String("file", path), zap.Int("rooms", len(rooms)))
		return nil
	},
}
