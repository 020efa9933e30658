package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REFRESH_SYMBOLS", " lbma, eurusd ,,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"LBMA", "EURUSD"}, cfg.RefreshSymbols)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.FetchConcurrency)
	assert.Equal(t, 8, cfg.CacheRefreshHour)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RefreshTimeout)
	assert.Equal(t, time.UTC, cfg.CacheLocation())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"hour out of range", "CACHE_REFRESH_HOUR", "24"},
		{"negative concurrency", "FETCH_CONCURRENCY", "-1"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"unknown time zone", "CACHE_TIMEZONE", "Mars/Olympus"},
		{"bad duration", "FETCH_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "symbol", "LBMA")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "LBMA", rec["symbol"])
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestNewLogger_TextAndFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{LogLevel: "loud", LogFormat: "TEXT"}, &buf)

	logger.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
