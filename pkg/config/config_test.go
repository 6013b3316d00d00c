package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldre/modhaven/pkg/errors"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Empty(t, cfg.ModsDir())
}

func TestLoadConfigFromReader(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(`
settings:
  game_dir: /games/starhaven
  http_timeout: 10s
  log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "/games/starhaven", cfg.Settings.GameDir)
	assert.Equal(t, filepath.Join("/games/starhaven", "mods"), cfg.ModsDir())
	assert.Equal(t, 10*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	// Unset values still get defaults.
	assert.Equal(t, DefaultMaxConcurrentChecks, cfg.Settings.MaxConcurrentChecks)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("settings: ["))
	assert.ErrorIs(t, err, errors.ErrConfigParse)
}

func TestLoadConfigInvalidLogLevel(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader(`
settings:
  log_level: loud
`))
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Settings.GameDir = "/games/starhaven"
	cfg.Settings.CheckUpdatesOnList = true
	require.NoError(t, cfg.SaveConfig(path))

	// No temp file left behind.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Settings.GameDir, loaded.Settings.GameDir)
	assert.True(t, loaded.Settings.CheckUpdatesOnList)
}

func TestGetSetRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	for _, key := range Keys() {
		_, err := cfg.Get(key)
		require.NoError(t, err, "key %s", key)
	}

	require.NoError(t, cfg.Set("game_dir", "/games/starhaven"))
	got, err := cfg.Get("game_dir")
	require.NoError(t, err)
	assert.Equal(t, "/games/starhaven", got)

	require.NoError(t, cfg.Set("http_timeout", "45s"))
	assert.Equal(t, 45*time.Second, cfg.Settings.HTTPTimeout)

	require.NoError(t, cfg.Set("check_updates_on_list", "true"))
	assert.True(t, cfg.Settings.CheckUpdatesOnList)

	assert.Error(t, cfg.Set("log_level", "loud"))
	assert.Error(t, cfg.Set("nope", "x"))
	_, err = cfg.Get("nope")
	assert.Error(t, err)
}

func TestDirOverrides(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Settings.StagingDir = "/tmp/custom-staging"
	dir, err := cfg.StagingDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-staging", dir)

	cfg.Settings.DownloadDir = "/tmp/custom-downloads"
	dir, err = cfg.DownloadDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-downloads", dir)
}
