package senzor

import (
	"github.com/dmitrymomot/senzor/pkg/config"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

// DefaultEndpoint is the hosted ingestion URL.
const DefaultEndpoint = transport.DefaultEndpoint

// Config is what the embedding page passes to Init.
type Config struct {
	// WebID identifies the site and is echoed in every payload.
	WebID string `env:"SENZOR_WEB_ID"`

	// Endpoint overrides the ingestion URL.
	Endpoint string `env:"SENZOR_ENDPOINT" envDefault:"https://api.senzor.dev/api/ingest/web"`
}

// ConfigFromEnv reads Config from the environment and an optional .env file.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	return c
}
