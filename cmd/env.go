package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds flag defaults that can be supplied through the environment.
// Explicit flags always win.
type EnvConfig struct {
	LogLevel         string `env:"COHORTSIM_LOG_LEVEL" envDefault:"info"`
	DefaultsFilePath string `env:"COHORTSIM_DEFAULTS_FILEPATH" envDefault:"defaults.yaml"`
	Workers          int    `env:"COHORTSIM_WORKERS" envDefault:"1"`
}

// parseEnvConfig loads EnvConfig from the process environment.
func parseEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
