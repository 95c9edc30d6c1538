package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.Search.FetchTimeout)
	assert.Equal(t, 5, cfg.Registry.Limit)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Assistant.BaseURL)
	assert.Equal(t, 300, cfg.Assistant.DescriptionMaxTokens)
	assert.InDelta(t, 0.5, cfg.Assistant.ConversationTemperature, 1e-6)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Search.Coalesce)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
search:
  cache_ttl: 2m
  coalesce: true
  cache_max_entries: 100
registry:
  api_key: from-file
`), 0o644))

	t.Setenv("HF_API_KEY", "")
	t.Setenv("REGISTRY_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 2*time.Minute, cfg.Search.CacheTTL)
	assert.True(t, cfg.Search.Coalesce)
	assert.Equal(t, 100, cfg.Search.CacheMaxEntries)
	assert.Equal(t, "or-key", cfg.Assistant.APIKey)
}

func TestLoadConfig_EnvCredential(t *testing.T) {
	t.Setenv("HF_API_KEY", "hf_secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "hf_secret", cfg.Registry.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
