package runtimeconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\nspine_fanout: 16\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 16, cfg.SpineFanout)
	assert.Equal(t, Default().ListenAddr, cfg.ListenAddr, "fields absent from the file keep their default")
}

func TestLoadErrorsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\n"), 0o644))

	t.Setenv("FLOWCORE_WORKERS", "9")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
}

func TestEnvOverridesApplyWithNoFile(t *testing.T) {
	t.Setenv("FLOWCORE_LISTEN_ADDR", ":9999")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsTinySpineFanout(t *testing.T) {
	cfg := Default()
	cfg.SpineFanout = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveFuelMultiplier(t *testing.T) {
	cfg := Default()
	cfg.FuelMultiplier = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
