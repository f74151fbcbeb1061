package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "shopchat.db", cfg.DBPath)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, 200, cfg.HistoryLimit)
	require.Equal(t, "*", cfg.AllowedOrigin)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("DATABASE_URL", "postgres://localhost/shopchat")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/tmp/test.db", cfg.DBPath)
	require.Equal(t, "postgres://localhost/shopchat", cfg.DatabaseURL)
	require.Equal(t, 25, cfg.HistoryLimit)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestSlogLevelFallback(t *testing.T) {
	require.Equal(t, slog.LevelInfo, Config{LogLevel: "loud"}.SlogLevel())
	require.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.SlogLevel())
	require.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
}
