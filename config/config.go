/*
Package config loads server configuration from YAML plus environment
overrides.

PURPOSE:
  One struct for everything the server binary needs: listen address,
  timeouts, storage path, and an optional catalogue override. Defaults
  are tuned for local development; production overrides via the config
  file or environment.

LOADING ORDER:
  1. YAML file (path from -config flag, default ./config/local.yaml)
  2. Environment variables on top
  3. env-default tags for anything still unset

  A missing file is not an error: the defaults plus environment are a
  complete configuration for development.

SEE ALSO:
  - cmd/server/main.go: The only consumer
*/
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"APP_ENV" env-default:"dev"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./data/board.db"`

	// CatalogPath points to a JSON catalogue (shifts, rate tables, cause
	// taxonomy, stop catalogue). Empty means the built-in default.
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH"`

	HTTPServer `yaml:"http_server"`

	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// MustConfig loads the configuration or exits.
func MustConfig(path string) *Config {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("cannot read config %s: %s", path, err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read environment config: %s", err)
	}
	return &cfg
}
