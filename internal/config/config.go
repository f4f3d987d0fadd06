// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the arena service configuration.
type Config struct {
	ListenAddr   string        `env:"ARENA_LISTEN_ADDR" envDefault:":8080"`
	DBPath       string        `env:"ARENA_DB_PATH" envDefault:"arena.db"`
	DataDir      string        `env:"ARENA_DATA_DIR" envDefault:"data"`
	AgentsDir    string        `env:"ARENA_AGENTS_DIR" envDefault:"agents"`
	SimsPerRound int           `env:"ARENA_SIMS_PER_ROUND" envDefault:"10"`
	Workers      int           `env:"ARENA_WORKERS" envDefault:"5"`
	SimTimeout   time.Duration `env:"ARENA_SIM_TIMEOUT" envDefault:"60s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
