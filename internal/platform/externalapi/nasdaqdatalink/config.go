// Package nasdaqdatalink provides a client for Nasdaq Data Link (formerly Quandl) dataset CSV downloads.
package nasdaqdatalink

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// legacyAPIKeyEnv is read when NASDAQ_DATA_LINK_API_KEY is unset.
const legacyAPIKeyEnv = "QUANDL_API_KEY"

// Config holds configuration for the Nasdaq Data Link client.
type Config struct {
	APIKey  string        `envconfig:"NASDAQ_DATA_LINK_API_KEY"`                                    // Optional; anonymous requests are heavily throttled
	BaseURL string        `envconfig:"NASDAQ_DATA_LINK_BASE_URL" default:"https://data.nasdaq.com"` // Base URL
	Timeout time.Duration `envconfig:"NASDAQ_DATA_LINK_TIMEOUT" default:"20s"`                      // HTTP request timeout
	RPS     float64       `envconfig:"NASDAQ_DATA_LINK_RPS" default:"1"`                            // Requests per second; 0 disables limiting
	Burst   int           `envconfig:"NASDAQ_DATA_LINK_BURST" default:"1"`
}

// LoadConfig loads configuration from NASDAQ_DATA_LINK_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(legacyAPIKeyEnv)
	}
	return cfg, nil
}
