package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "USD", cfg.App.Currency)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "/erp", cfg.HTTP.BasePath)
	assert.Equal(t, 5*time.Minute, cfg.Charts.CacheTTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Development())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "erp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
  currency: eur
http:
  port: 9000
charts:
  cache_ttl: 30s
  theme: chalk
`), 0o600))

	t.Setenv("ERPDASH_HTTP_PORT", "9100")
	t.Setenv("ERPDASH_LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "EUR", cfg.App.Currency)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Charts.CacheTTL)
	assert.Equal(t, "chalk", cfg.Charts.Theme)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ERPDASH_HTTP_PORT", "70000")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Port")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
