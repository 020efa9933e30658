// Package config loads process-wide settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds settings shared by the server and the refresh command.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // json or text

	// JWTSecret enables bearer auth on /quotes when set.
	JWTSecret string `envconfig:"JWT_SECRET"`

	// RefreshCron schedules the watchlist refresh; empty disables it.
	RefreshCron    string        `envconfig:"REFRESH_CRON"`
	RefreshSymbols []string      `envconfig:"REFRESH_SYMBOLS"`
	RefreshTimeout time.Duration `envconfig:"REFRESH_TIMEOUT" default:"5m"`

	FetchTimeout     time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	FetchConcurrency int           `envconfig:"FETCH_CONCURRENCY" default:"8"`

	// Cached series expire at this hour of the day in CacheTimeZone.
	CacheRefreshHour int    `envconfig:"CACHE_REFRESH_HOUR" default:"8"`
	CacheTimeZone    string `envconfig:"CACHE_TIMEZONE" default:"UTC"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.RefreshSymbols = NormalizeSymbols(cfg.RefreshSymbols)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CacheRefreshHour < 0 || c.CacheRefreshHour > 23 {
		return fmt.Errorf("CACHE_REFRESH_HOUR must be within 0-23, got %d", c.CacheRefreshHour)
	}
	if c.FetchConcurrency < 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must not be negative, got %d", c.FetchConcurrency)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if _, err := time.LoadLocation(c.CacheTimeZone); err != nil {
		return fmt.Errorf("CACHE_TIMEZONE: %w", err)
	}
	return nil
}

// CacheLocation returns the time zone of CacheRefreshHour.
func (c Config) CacheLocation() *time.Location {
	loc, err := time.LoadLocation(c.CacheTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NormalizeSymbols trims and upper-cases symbols and drops blanks.
func NormalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewLogger builds the process logger described by LogLevel and LogFormat.
func NewLogger(c Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
