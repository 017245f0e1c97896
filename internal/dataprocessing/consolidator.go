package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/exporter"
	"stocklens/internal/files"
	"stocklens/internal/infrastructure"
	"stocklens/pkg/contracts/domain"
)

// Consolidator merges all per-ticker series into the master table.
type Consolidator struct {
	paths     *config.Paths
	csvWriter *exporter.CSVWriter
	logger    *slog.Logger
}

// NewConsolidator creates a new consolidator.
func NewConsolidator(paths *config.Paths, logger *slog.Logger) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{
		paths:     paths,
		csvWriter: exporter.NewCSVWriter(),
		logger:    logger.With(slog.String("component", "consolidator")),
	}
}

// ConsolidateStats reports what one consolidator run did.
type ConsolidateStats struct {
	InputFiles        int
	TotalRows         int
	DuplicatesRemoved int
	Tickers           int
}

// Run concatenates every per-ticker CSV, removes exact-duplicate rows and
// stable-sorts by (ticker, date). Rows with equal sort keys keep their
// relative input order: upstream ordering may be the only signal when dates
// collide or are missing. Fatal only when zero input files exist.
func (c *Consolidator) Run(ctx context.Context) (ConsolidateStats, error) {
	var stats ConsolidateStats

	discovery := files.NewDiscovery("")
	csvFiles, err := discovery.FindCSVFiles(c.paths.TickersDir)
	if err != nil {
		return stats, apperrors.NewMissingInput(c.paths.TickersDir, "ticker CSV folder not found")
	}
	if len(csvFiles) == 0 {
		return stats, apperrors.NewMissingInput(c.paths.TickersDir, "no ticker CSV files found")
	}
	stats.InputFiles = len(csvFiles)

	var combined []domain.PriceRow
	for _, file := range csvFiles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		table, err := dataset.ReadTable(file.Path)
		if err != nil {
			return stats, fmt.Errorf("failed to read ticker file %s: %w", file.Path, err)
		}
		rows := table.PriceRows()
		combined = append(combined, rows...)
		infrastructure.RowsRead.WithLabelValues("consolidate").Add(float64(len(rows)))
	}

	// Duplicate removal on full-row equality, first occurrence wins.
	seen := make(map[string]struct{}, len(combined))
	unique := combined[:0]
	for _, row := range combined {
		key := dataset.RowKey(row)
		if _, dup := seen[key]; dup {
			stats.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, row)
	}
	infrastructure.DuplicatesRemoved.Add(float64(stats.DuplicatesRemoved))

	dataset.SortByTickerDate(unique)

	records := make([][]string, len(unique))
	tickers := make(map[string]struct{})
	for i, row := range unique {
		records[i] = dataset.PriceRecord(row)
		tickers[row.Ticker] = struct{}{}
	}
	stats.TotalRows = len(unique)
	stats.Tickers = len(tickers)

	if err := c.csvWriter.WriteSimpleCSV(c.paths.MasterCSV, domain.MasterColumns, records); err != nil {
		return stats, fmt.Errorf("failed to write master table: %w", err)
	}
	infrastructure.RowsWritten.WithLabelValues("consolidate").Add(float64(stats.TotalRows))

	c.logger.Info("consolidation completed",
		slog.Int("input_files", stats.InputFiles),
		slog.Int("total_rows", stats.TotalRows),
		slog.Int("duplicates_removed", stats.DuplicatesRemoved),
		slog.Int("tickers", stats.Tickers))
	return stats, nil
}
