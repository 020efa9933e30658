// Package stooq provides a client for the stooq.com daily CSV download endpoint.
package stooq

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration for the stooq client.
type Config struct {
	BaseURL string        `envconfig:"STOOQ_BASE_URL" default:"https://stooq.com"` // Base URL
	Timeout time.Duration `envconfig:"STOOQ_TIMEOUT" default:"20s"`                // HTTP request timeout
	RPS     float64       `envconfig:"STOOQ_RPS" default:"4"`                      // Requests per second; 0 disables limiting
	Burst   int           `envconfig:"STOOQ_BURST" default:"4"`
}

// LoadConfig loads stooq configuration from STOOQ_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
