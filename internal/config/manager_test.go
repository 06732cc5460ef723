package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managerFor(t *testing.T) *Manager {
	t.Helper()
	return &Manager{configDir: t.TempDir()}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	m := managerFor(t)
	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 120*time.Second, cfg.CmdTimeout())
}

func TestLoadMergesFileWithDefaults(t *testing.T) {
	m := managerFor(t)
	require.NoError(t, os.WriteFile(m.GetConfigPath(), []byte(`{"cmd_timeout_sec": 30}`), 0600))

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.CmdTimeoutSec)
	// Unset fields keep their defaults.
	assert.Equal(t, Defaults().MaxPatternIterations, cfg.MaxPatternIterations)
	assert.Equal(t, Defaults().MinSmartResults, cfg.MinSmartResults)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	m := managerFor(t)
	require.NoError(t, os.WriteFile(m.GetConfigPath(), []byte(`{not json`), 0600))

	_, err := m.Load()
	assert.Error(t, err)
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	m := managerFor(t)
	require.NoError(t, os.WriteFile(m.GetConfigPath(), []byte(`{"cmd_timeout_sec": 30}`), 0600))
	t.Setenv("MAGPIE_CMD_TIMEOUT_SEC", "45")
	t.Setenv("MAGPIE_MIN_SMART_RESULTS", "4")
	t.Setenv("MAGPIE_MAX_SEARCH_RESULTS", "nonsense") // ignored

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.CmdTimeoutSec)
	assert.Equal(t, 4, cfg.MinSmartResults)
	assert.Equal(t, Defaults().MaxSearchResults, cfg.MaxSearchResults)
}

func TestLoadClampsNonPositiveValues(t *testing.T) {
	m := managerFor(t)
	require.NoError(t, os.WriteFile(m.GetConfigPath(), []byte(`{"max_pattern_iterations": -5}`), 0600))

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().MaxPatternIterations, cfg.MaxPatternIterations)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manager{configDir: filepath.Join(dir, "nested")}

	want := &Config{CmdTimeoutSec: 7, MaxPatternIterations: 11, MaxSearchResults: 13, MinSmartResults: 3}
	require.NoError(t, m.Save(want))

	info, err := os.Stat(m.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
