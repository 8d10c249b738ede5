package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_ALLOW_NO_KEY", "")
	t.Setenv("DATASET_SOURCE", "")
	t.Setenv("DATASET_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Dataset.Source)
	assert.Equal(t, "poly_data.json", cfg.Dataset.Path)
	assert.Equal(t, 1500, cfg.Session.HistoryBudget)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "1", cfg.Dialogue.SupportedBuilding)
	assert.Equal(t, 1, cfg.OpenAI.Concurrency)
	assert.False(t, cfg.OpenAI.Enabled, "generation is disabled without a key")
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.Server.SessionAPIEnabled, "session routes are opt-in")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_ALLOW_NO_KEY", "true")
	t.Setenv("OPENAI_API_BASE", "http://127.0.0.1:11434/v1/")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("MAX_HISTORY_CHARS", "300")
	t.Setenv("DIALOGUE_RANDOM_SEED", "42")
	t.Setenv("TURN_LOG_ENABLED", "true")
	t.Setenv("SESSION_API_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OpenAI.Enabled, "local servers run without a key")
	assert.Equal(t, "http://127.0.0.1:11434/v1", cfg.OpenAI.APIBase)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 300, cfg.Session.HistoryBudget)
	assert.Equal(t, int64(42), cfg.Dialogue.RandomSeed)
	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.Server.SessionAPIEnabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("SESSION_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestValidate(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "s3")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATASET_SOURCE", "file")
	t.Setenv("MAX_HISTORY_CHARS", "0")
	_, err = Load()
	require.Error(t, err)
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "poli", Password: "secret", Database: "rooms", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5433 user=poli password=secret dbname=rooms sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", cfg.GetPostgreSQLDSN())
}
