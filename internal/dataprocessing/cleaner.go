package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/exporter"
	"stocklens/internal/infrastructure"
	"stocklens/pkg/contracts/domain"
)

// Cleaner turns the master table into the cleaned table every derived
// artifact reads: typed values, ticker-scoped forward-fill and daily returns.
type Cleaner struct {
	paths     *config.Paths
	csvWriter *exporter.CSVWriter
	logger    *slog.Logger
}

// NewCleaner creates a new cleaner.
func NewCleaner(paths *config.Paths, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		paths:     paths,
		csvWriter: exporter.NewCSVWriter(),
		logger:    logger.With(slog.String("component", "cleaner")),
	}
}

// CleanStats reports what one cleaner run did.
type CleanStats struct {
	RowsIn      int
	RowsDropped int
	CellsFilled int
	RowsOut     int
	Tickers     int
}

// Run reads the master table, cleans it and writes the cleaned table.
func (c *Cleaner) Run(ctx context.Context) (CleanStats, error) {
	table, err := dataset.ReadTable(c.paths.MasterCSV)
	if err != nil {
		return CleanStats{}, apperrors.NewMissingInput(c.paths.MasterCSV, "master table not found")
	}
	infrastructure.RowsRead.WithLabelValues("clean").Add(float64(len(table.Rows)))

	cleaned, stats, err := Clean(table, c.paths.MasterCSV)
	if err != nil {
		return stats, err
	}
	infrastructure.CellsFilled.Add(float64(stats.CellsFilled))
	infrastructure.RowsDropped.Add(float64(stats.RowsDropped))

	records := make([][]string, len(cleaned))
	for i, row := range cleaned {
		records[i] = dataset.CleanRecord(row)
	}
	if err := c.csvWriter.WriteSimpleCSV(c.paths.CleanedCSV, domain.CleanedColumns, records); err != nil {
		return stats, fmt.Errorf("failed to write cleaned table: %w", err)
	}
	infrastructure.RowsWritten.WithLabelValues("clean").Add(float64(stats.RowsOut))

	c.logger.Info("cleaning completed",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_dropped", stats.RowsDropped),
		slog.Int("cells_filled", stats.CellsFilled),
		slog.Int("rows_out", stats.RowsOut),
		slog.Int("tickers", stats.Tickers))
	return stats, nil
}

// Clean validates, coerces, drops, sorts, forward-fills and derives daily
// returns. Grouping is strictly ticker-scoped: the fill state and the
// previous close reset at every ticker boundary, so no value ever leaks from
// one ticker's series into another's.
func Clean(table *dataset.Table, source string) ([]domain.CleanRow, CleanStats, error) {
	var stats CleanStats

	if missing := table.MissingColumns(domain.MasterColumns); len(missing) > 0 {
		return nil, stats, apperrors.NewSchemaError(source, missing)
	}

	rows := table.PriceRows()
	stats.RowsIn = len(rows)

	// Drop rows lacking a ticker or a close price.
	kept := rows[:0]
	for _, row := range rows {
		if row.Ticker == "" || domain.IsMissing(row.Close) {
			stats.RowsDropped++
			continue
		}
		kept = append(kept, row)
	}

	dataset.SortByTickerDate(kept)

	cleaned := make([]domain.CleanRow, len(kept))
	var (
		currentTicker string
		lastOpen      = domain.Missing()
		lastHigh      = domain.Missing()
		lastLow       = domain.Missing()
		lastVolume    = domain.Missing()
		prevClose     = domain.Missing()
		tickers       int
	)

	for i, row := range kept {
		if row.Ticker != currentTicker {
			// Group boundary: fill state never crosses tickers.
			currentTicker = row.Ticker
			lastOpen, lastHigh, lastLow, lastVolume = domain.Missing(), domain.Missing(), domain.Missing(), domain.Missing()
			prevClose = domain.Missing()
			tickers++
		}

		row.Open, lastOpen = fillForward(row.Open, lastOpen, &stats)
		row.High, lastHigh = fillForward(row.High, lastHigh, &stats)
		row.Low, lastLow = fillForward(row.Low, lastLow, &stats)
		row.Volume, lastVolume = fillForward(row.Volume, lastVolume, &stats)

		ret := domain.Missing()
		if !domain.IsMissing(prevClose) {
			ret = row.Close/prevClose - 1
		}
		prevClose = row.Close

		cleaned[i] = domain.CleanRow{PriceRow: row, DailyReturn: ret}
	}

	stats.RowsOut = len(cleaned)
	stats.Tickers = tickers
	return cleaned, stats, nil
}

// fillForward returns the effective value and the updated last-known value.
// A missing value is replaced with the last known value for the same ticker;
// nothing is filled before a ticker's first non-missing observation.
func fillForward(value, last float64, stats *CleanStats) (float64, float64) {
	if domain.IsMissing(value) {
		if !domain.IsMissing(last) {
			stats.CellsFilled++
			return last, last
		}
		return value, last
	}
	return value, value
}
