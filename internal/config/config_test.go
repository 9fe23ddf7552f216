package config

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_NAME", "LLM_PROVIDER", "QDRANT_URL", "QDRANT_COLLECTION", "WORKER_POLL_INTERVAL", "MAX_FILE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "resume_analyzer", cfg.Database.DBName)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "resume_guidelines", cfg.Qdrant.Collection)
	assert.False(t, cfg.Qdrant.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("QDRANT_URL", "http://qdrant:6334")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("RETRY_INITIAL_DELAY", "250ms")

	cfg := Load()

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.True(t, cfg.Qdrant.Enabled())
	assert.Equal(t, 8, cfg.Worker.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.RetryInitialDelay)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "many")
	t.Setenv("WORKER_POLL_INTERVAL", "soon")
	t.Setenv("MAX_FILE_SIZE", "10MB")

	cfg := Load()

	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "app", Password: "secret", DBName: "resume_analyzer", SSLMode: "require",
	}}

	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=resume_analyzer sslmode=require", cfg.GetDatabaseDSN())
}

func TestConfigurePool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	configurePool(db, DatabaseConfig{MaxOpenConns: 7})

	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
