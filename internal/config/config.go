package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds the viewer server settings. Everything has a sensible
// default so Init() works with no environment at all.
type Config struct {
	Host         string `env:"LOGAN_HOST" default:"127.0.0.1"`
	Port         int    `env:"LOGAN_PORT" default:"5000"`
	PortAttempts int    `env:"LOGAN_PORT_ATTEMPTS" default:"20"`

	LogLevel  string `env:"LOGAN_LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOGAN_LOG_FORMAT" default:"text"`

	HeartbeatTimeout time.Duration `env:"LOGAN_HEARTBEAT_TIMEOUT" default:"30s"`
	HistorySize      int           `env:"LOGAN_HISTORY_SIZE" default:"1000"`

	Banner bool `env:"LOGAN_BANNER" default:"true"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the bounds of every setting. Callers that mutate a
// loaded Config afterwards should run it again.
func (cfg *Config) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("LOGAN_PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.PortAttempts < 1 {
		return fmt.Errorf("LOGAN_PORT_ATTEMPTS must be at least 1, got %d", cfg.PortAttempts)
	}
	if cfg.HeartbeatTimeout <= 0 {
		return fmt.Errorf("LOGAN_HEARTBEAT_TIMEOUT must be positive, got %s", cfg.HeartbeatTimeout)
	}
	if cfg.HistorySize < 0 {
		return fmt.Errorf("LOGAN_HISTORY_SIZE must not be negative, got %d", cfg.HistorySize)
	}
	return nil
}
