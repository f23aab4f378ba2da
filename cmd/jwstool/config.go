package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config is read from the environment; command flags override it.
type config struct {
	Env       string        `env:"JWSTOOL_ENV" envDefault:"production"`
	LogLevel  string        `env:"JWSTOOL_LOG_LEVEL"`
	Algorithm string        `env:"JWSTOOL_ALGORITHM" envDefault:"HS256"`
	Secret    string        `env:"JWSTOOL_SECRET"`
	Layout    string        `env:"JWSTOOL_LAYOUT" envDefault:"nested"`
	Leeway    time.Duration `env:"JWSTOOL_LEEWAY" envDefault:"0s"`
	KeyBits   int           `env:"JWSTOOL_KEY_BITS" envDefault:"2048"`
}

// loadDotEnv loads ./.env into the process environment when present.
// Variables already set win over the file.
func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func loadConfig(environ map[string]string) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
