package config

import (
	"fmt"
	"os"
	"path/filepath"

	"stocklens/pkg/contracts/domain"
)

// Paths contains all the application paths.
// This is the single source of truth for every file the pipeline reads or writes.
type Paths struct {
	BaseDir    string
	RawDir     string
	TickersDir string
	ReportsDir string
	LogsDir    string
	SectorFile string

	// Well-known artifact files
	MasterCSV  string
	CleanedCSV string
}

// NewPaths resolves the configured layout into absolute paths.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir %s: %w", cfg.BaseDir, err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	paths := &Paths{
		BaseDir:    base,
		RawDir:     resolve(cfg.RawDir),
		TickersDir: resolve(cfg.TickersDir),
		ReportsDir: resolve(cfg.ReportsDir),
		LogsDir:    resolve(cfg.LogsDir),
		SectorFile: resolve(cfg.SectorFile),
	}
	paths.MasterCSV = paths.ArtifactPath(domain.ArtifactMaster)
	paths.CleanedCSV = paths.ArtifactPath(domain.ArtifactCleaned)
	return paths, nil
}

// EnsureDirs creates the writable directories if they do not exist.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.TickersDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// TickerCSV returns the per-ticker normalized series file for a ticker.
func (p *Paths) TickerCSV(ticker string) string {
	return filepath.Join(p.TickersDir, ticker+".csv")
}

// ArtifactPath returns the on-disk location of a named artifact.
// Unknown names map to <name>.csv in the reports directory.
func (p *Paths) ArtifactPath(name string) string {
	if art, ok := domain.Artifacts[name]; ok {
		return filepath.Join(p.ReportsDir, art.FileName)
	}
	return filepath.Join(p.ReportsDir, name+".csv")
}

// GetReportPath returns the location of an arbitrary report file.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}
