package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "explicit missing file should fail")

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "libsql", cfg.Store.Driver)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 10, cfg.RateLimits.ListingCreate.Limit)
	require.Equal(t, 30*time.Minute, cfg.RateLimits.ListingCreate.Window)
	require.Equal(t, 1, cfg.RateLimits.ProfileChange.Limit)
	require.Empty(t, cfg.Redis.Addr)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palace.yaml")
	content := []byte(`
server:
  port: 9000
store:
  path: ":memory:"
redis:
  addr: "localhost:6379"
rate_limits:
  listing_create:
    limit: 3
    window: 5m
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, ":memory:", cfg.Store.Path)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 3, cfg.RateLimits.ListingCreate.Limit)
	require.Equal(t, 5*time.Minute, cfg.RateLimits.ListingCreate.Window)

	// Unset sections keep their defaults.
	require.Equal(t, 15, cfg.RateLimits.Upload.Limit)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PALACE_SERVER_PORT", "7777")
	t.Setenv("PALACE_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7777, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Logging.Level)
}
