package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name in Config's env tags.
const EnvPrefix = "GOPHAUTH_"

// loadDotEnv is a seam for tests.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv overlays variables that are set; unset ones keep the value from
// the earlier layers.
func parseEnv(config *Config) error {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
