package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOOKS_DATABASE_URL", "postgres://localhost/books")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/books", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.BindAddr)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.DebugMode)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOOKS_DATABASE_URL", "postgres://db/books")
	t.Setenv("BOOKS_BIND_ADDR", "127.0.0.1:9000")
	t.Setenv("BOOKS_LOG_LEVEL", "WARN")
	t.Setenv("BOOKS_LOG_FORMAT", "json")
	t.Setenv("BOOKS_DEBUG_MODE", "true")
	t.Setenv("BOOKS_AUTO_MIGRATE", "true")
	t.Setenv("BOOKS_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.BindAddr)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.DebugMode)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("BOOKS_DATABASE_URL", "")

		_, err := Load()

		assert.ErrorContains(t, err, "DatabaseURL")
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("BOOKS_DATABASE_URL", "postgres://localhost/books")
		t.Setenv("BOOKS_LOG_LEVEL", "verbose")

		_, err := Load()

		assert.ErrorContains(t, err, "LogLevel")
	})
}
