// Package config loads runtime settings from the environment, with an
// optional .env file layered underneath for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is everything the CLI and pipeline read from the environment.
// Flags may override individual fields after loading.
type Config struct {
	// Text generation backend: "anthropic" or "openai".
	Backend string `env:"THREADSMITH_BACKEND" envDefault:"anthropic"`
	Model   string `env:"THREADSMITH_MODEL"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	// Optional YAML file with persona and subreddit overrides.
	LibraryPath string `env:"THREADSMITH_LIBRARY"`

	// Prometheus listen address; empty disables the metrics endpoint.
	MetricsAddr string `env:"THREADSMITH_METRICS_ADDR"`

	// OTLP tracing toggle. The exporter itself reads the standard
	// OTEL_EXPORTER_OTLP_ENDPOINT variable.
	Tracing bool `env:"THREADSMITH_TRACING"`

	MaxAttempts int `env:"THREADSMITH_MAX_ATTEMPTS" envDefault:"2"`
	MinQuality  int `env:"THREADSMITH_MIN_QUALITY" envDefault:"70"`
}

// Load reads the .env file if present, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unknown backend %q (want anthropic or openai)", c.Backend)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// Key returns the API key for the configured backend.
func (c *Config) Key() string {
	if c.Backend == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

// RequireKey fails early when the configured backend has no API key, naming
// the variable to set instead of surfacing an auth error mid-generation.
func (c *Config) RequireKey() error {
	if c.Key() != "" {
		return nil
	}
	name := "ANTHROPIC_API_KEY"
	if c.Backend == "openai" {
		name = "OPENAI_API_KEY"
	}
	return fmt.Errorf("%s backend needs %s set", c.Backend, name)
}
