package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linetrack/production-board/config"
)

func TestMustConfigReadsYAML(t *testing.T) {
	// GIVEN a config file overriding the defaults
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	yaml := `
env: prod
storage_path: /var/lib/board/board.db
http_server:
  address: 0.0.0.0:9090
  timeout: 5s
allowed_origins:
  - https://board.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	// WHEN loading it
	cfg := config.MustConfig(path)

	// THEN file values win and unset fields keep their defaults
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "/var/lib/board/board.db", cfg.StoragePath)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, []string{"https://board.example.com"}, cfg.AllowedOrigins)
}

func TestMustConfigFallsBackToDefaults(t *testing.T) {
	// GIVEN no config file at the given path
	cfg := config.MustConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	// THEN the development defaults apply
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "./data/board.db", cfg.StoragePath)
	assert.Equal(t, "localhost:8080", cfg.Address)
}
