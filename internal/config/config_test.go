package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/pkg/contracts/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "data/raw", cfg.Paths.RawDir)
	assert.Equal(t, "data/tickers", cfg.Paths.TickersDir)
	assert.Equal(t, "data/reports", cfg.Paths.ReportsDir)
	assert.Equal(t, "data/sector_data.csv", cfg.Paths.SectorFile)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
logging:
  level: debug
paths:
  base_dir: /tmp/stocklens
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/stocklens", cfg.Paths.BaseDir)
	// Unset fields still get their defaults.
	assert.Equal(t, "data/raw", cfg.Paths.RawDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))
	t.Setenv("STOCKLENS_SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("STOCKLENS_LOGGING_LEVEL", "loud")
	_, err := Load("")
	assert.Error(t, err)
}

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		BaseDir:    base,
		RawDir:     "data/raw",
		TickersDir: "data/tickers",
		ReportsDir: "data/reports",
		LogsDir:    "logs",
		SectorFile: "/abs/sector.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data/raw"), paths.RawDir)
	// Absolute paths pass through untouched.
	assert.Equal(t, "/abs/sector.csv", paths.SectorFile)

	assert.Equal(t, filepath.Join(base, "data/tickers", "AAA.csv"), paths.TickerCSV("AAA"))
	assert.Equal(t, filepath.Join(base, "data/reports", "master_dataset.csv"), paths.MasterCSV)
	assert.Equal(t, filepath.Join(base, "data/reports", "yearly_returns.csv"),
		paths.ArtifactPath(domain.ArtifactYearlyReturns))
	assert.Equal(t, filepath.Join(base, "data/reports", "custom.csv"), paths.ArtifactPath("custom"))
}

func TestEnsureDirs(t *testing.T) {
	paths, err := NewPaths(PathsConfig{
		BaseDir:    t.TempDir(),
		RawDir:     "raw",
		TickersDir: "tickers",
		ReportsDir: "reports",
		LogsDir:    "logs",
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())

	for _, dir := range []string{paths.TickersDir, paths.ReportsDir, paths.LogsDir} {
		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
}
