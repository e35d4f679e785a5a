package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigHasSaneDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 8585, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Transport.EventLogRetention)
	assert.True(t, cfg.Live.Enabled)
	assert.Len(t, cfg.Live.Sources, 4)
}

func TestLoadFromFileEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	toml := "[server]\nport = 9191\nhost = \"0.0.0.0\"\n"
	require.NoError(t, os.WriteFile(path, []byte(toml), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadFromFileMissingFileErrors(t *testing.T) {
	_, err := LoadFromFile("/does/not/exist.toml")
	assert.Error(t, err)
}

func TestApplyEnvOverridesPrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	toml := "[server]\nport = 9191\n[logging]\nlevel = \"info\"\n"
	require.NoError(t, os.WriteFile(path, []byte(toml), 0644))

	t.Setenv("DOCSEARCH_SERVER_PORT", "7000")
	t.Setenv("DOCSEARCH_LOG_LEVEL", "debug")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
