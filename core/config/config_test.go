package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"discovery-sync/feature/discovery/source"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "discovery", cfg.Database.Name)
	assert.Equal(t, source.CredentialClient, cfg.Source.CredentialMode)
	assert.Equal(t, 300, cfg.Catalog.AsyncTimeoutSeconds)
	assert.Equal(t, 100, cfg.Sync.ChunkSize)
	assert.Equal(t, 30, cfg.Sync.LastSeenDays)
	assert.Contains(t, cfg.Sync.IgnoredUsers, "Administrator")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SOURCE_URL", "https://console.example")
	t.Setenv("CATALOG_ACCOUNT", "acme")
	t.Setenv("SYNC_GENERATE_LABELS", "true")

	cfg, err := LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "https://console.example", cfg.Source.URL)
	assert.Equal(t, "acme", cfg.Catalog.Account)
	assert.True(t, cfg.Sync.GenerateLabels)
}
