package main

import (
	"fmt"
	"os"

	"poli-assistant/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// Global flags
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd runs the HTTP service
var rootCmd = &cobra.Command{
	Use:   "poli-assistant",
	Short: "Poli - campus room-finder assistant for Lviv Polytechnic",
	Long: `Poli answers chat messages about rooms on campus.

It resolves room and building numbers from free text, asks for whatever is missing,
and hands the navigation code of a confirmed room to the map frontend.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version: %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Session id to continue (default: a new one)")

	importCmd.Flags().StringVar(&importFile, "file", "", "Dataset file to import (default: DATASET_PATH)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds a JSON production logger, or a console logger when LOG_FORMAT=console
func newLogger(lc config.LoggingConfig, debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if debug {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.Level = level

	return zc.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
