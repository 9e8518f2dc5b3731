package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig holds defaults read from the environment. Flags override them.
type envConfig struct {
	Schema     string `env:"DTOBJ_SCHEMA"`
	Lang       string `env:"DTOBJ_LANG" envDefault:"en"`
	JSONDriver string `env:"DTOBJ_JSON_DRIVER" envDefault:"go-json"`
	Verbose    bool   `env:"DTOBJ_VERBOSE"`
}

func parseEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
