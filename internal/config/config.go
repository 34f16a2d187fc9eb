// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from FORGE_* environment variables.
type Config struct {
	AssetsDir   string `env:"FORGE_ASSETS_DIR" envDefault:"public"`
	CatalogPath string `env:"FORGE_CATALOG_PATH"`
	LogLevel    string `env:"FORGE_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"FORGE_LOG_FORMAT" envDefault:"console"`
	RandomSeed  uint64 `env:"FORGE_RANDOM_SEED" envDefault:"0"`
}

// Load reads an optional .env file from the working directory, then parses the
// environment. Variables already set take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("FORGE_LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}
	return &cfg, nil
}

// Assets returns the static assets directory as a file system.
func (c *Config) Assets() fs.FS {
	return os.DirFS(c.AssetsDir)
}
