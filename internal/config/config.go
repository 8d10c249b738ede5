package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Dataset    DatasetConfig
	Session    SessionConfig
	Dialogue   DialogueConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration.
// The database is optional: it can serve as the room source and as the turn audit log.
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the individual fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	TurnLogEnabled     bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	RateLimit      float64 // chat requests per second, 0 disables limiting
	RateBurst      int
	WebDir         string // built map frontend, empty when it is served elsewhere

	// SessionAPIEnabled exposes session inspection and reset over HTTP. The routes are
	// unauthenticated, so keep it off outside local debugging.
	SessionAPIEnabled bool
}

// DatasetConfig selects where room records come from
type DatasetConfig struct {
	Source string // "file" or "postgres"
	Path   string // JSON or YAML file when Source is "file"
}

// SessionConfig bounds the in-memory conversation store
type SessionConfig struct {
	TTL             time.Duration
	MaxSessions     int
	CleanupInterval time.Duration
	HistoryBudget   int // characters kept in the rolling history
}

// DialogueConfig holds dialogue behaviour switches
type DialogueConfig struct {
	SupportedBuilding string
	RandomSeed        int64 // 0 seeds from the clock
	AbandonReply      bool  // reply with a clarification when a pending building question is abandoned
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// OpenAIConfig holds the OpenAI-compatible generation endpoint configuration.
// Any server speaking /chat/completions works, including local llama.cpp or vLLM servers.
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatTopP        float64
	ChatMaxTokens   int
	ChatExtraBody   string // JSON string for extra_body (e.g., {"repetition_penalty":1.1})
	Timeout         int    // seconds per generation call
	Concurrency     int    // simultaneous generation calls, 1 for a single local model
	AllowNoKey      bool
	Enabled         bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	apiKey := getEnv("OPENAI_API_KEY", "")
	allowNoKey := getEnvAsBool("LLM_ALLOW_NO_KEY", false)

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "poli"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			TurnLogEnabled:     getEnvAsBool("TURN_LOG_ENABLED", false),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8001),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			RateLimit:      getEnvAsFloat("CHAT_RATE_LIMIT", 5),
			RateBurst:      getEnvAsInt("CHAT_RATE_BURST", 10),
			WebDir:         getEnv("WEB_DIR", ""),

			SessionAPIEnabled: getEnvAsBool("SESSION_API_ENABLED", false),
		},
		Dataset: DatasetConfig{
			Source: strings.ToLower(getEnv("DATASET_SOURCE", "file")),
			Path:   getEnv("DATASET_PATH", "poly_data.json"),
		},
		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			MaxSessions:     getEnvAsInt("SESSION_MAX", 10000),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", time.Minute),
			HistoryBudget:   getEnvAsInt("MAX_HISTORY_CHARS", 1500),
		},
		Dialogue: DialogueConfig{
			SupportedBuilding: getEnv("SUPPORTED_BUILDING", "1"),
			RandomSeed:        int64(getEnvAsInt("DIALOGUE_RANDOM_SEED", 0)),
			AbandonReply:      getEnvAsBool("DIALOGUE_ABANDON_REPLY", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OpenAI: OpenAIConfig{
			APIKey:          apiKey,
			APIBase:         strings.TrimRight(getEnv("OPENAI_API_BASE", "http://localhost:8080/v1"), "/"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "microsoft/Phi-3-mini-4k-instruct"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatTopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.9),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 120),
			ChatExtraBody:   getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
			Concurrency:     getEnvAsInt("LLM_CONCURRENCY", 1),
			AllowNoKey:      allowNoKey,
			Enabled:         apiKey != "" || allowNoKey,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case "file":
		if c.Dataset.Path == "" {
			return fmt.Errorf("DATASET_PATH must be set when DATASET_SOURCE=file")
		}
	case "postgres":
		if c.PostgreSQL.DSN == "" && c.PostgreSQL.Host == "" {
			return fmt.Errorf("PostgreSQL connection is required when DATASET_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown DATASET_SOURCE %q (want file or postgres)", c.Dataset.Source)
	}
	if c.Session.HistoryBudget <= 0 {
		return fmt.Errorf("MAX_HISTORY_CHARS must be positive, got %d", c.Session.HistoryBudget)
	}
	if c.OpenAI.Concurrency <= 0 {
		return fmt.Errorf("LLM_CONCURRENCY must be positive, got %d", c.OpenAI.Concurrency)
	}
	if c.Dialogue.SupportedBuilding == "" {
		return fmt.Errorf("SUPPORTED_BUILDING must not be empty")
	}
	return nil
}

// UsesPostgres reports whether any component needs a database connection
func (c *Config) UsesPostgres() bool {
	return c.Dataset.Source == "postgres" || c.PostgreSQL.TurnLogEnabled
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
