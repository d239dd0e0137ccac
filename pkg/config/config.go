// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the property-listings service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"LISTINGS_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file.
	DBPath string `env:"LISTINGS_DB" envDefault:"listings.db"`

	// RedisAddr is the cache backend address. Empty disables Redis
	// and falls back to the in-process cache.
	RedisAddr     string `env:"LISTINGS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"LISTINGS_REDIS_PASSWORD"`
	RedisDB       int    `env:"LISTINGS_REDIS_DB" envDefault:"0"`

	LogLevel  string `env:"LISTINGS_LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LISTINGS_LOG_PRETTY" envDefault:"false"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
