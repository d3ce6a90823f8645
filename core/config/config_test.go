package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 3600, cfg.Sync.IntervalSeconds)
	assert.Equal(t, 100, cfg.Sync.BatchSize)
	assert.Equal(t, "fever_first_provider", cfg.Provider.Name)
	assert.Equal(t, 10, cfg.Provider.TimeoutSeconds)
	assert.False(t, cfg.Storage.Enabled)
	assert.Empty(t, cfg.AllProviders(), "primary provider without URL is ignored")
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("PROVIDER_URL", "http://localhost:8081/api/events")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "5")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	providers := cfg.AllProviders()
	require.Len(t, providers, 1)
	assert.Equal(t, "fever_first_provider", providers[0].Name)
	assert.Equal(t, "http://localhost:8081/api/events", providers[0].URL)
	assert.Equal(t, 5, providers[0].TimeoutSeconds)
}

func TestLoadConfig_ProvidersFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `providers:
  - name: second_provider
    url: http://second.example/api/events
    timeout_seconds: 15
  - name: incomplete
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("PROVIDER_URL", "http://first.example/api/events")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	providers := cfg.AllProviders()
	require.Len(t, providers, 2)
	assert.Equal(t, "fever_first_provider", providers[0].Name)
	assert.Equal(t, "second_provider", providers[1].Name)
	assert.Equal(t, 15, providers[1].TimeoutSeconds)
}
