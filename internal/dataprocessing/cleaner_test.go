package dataprocessing

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{
		BaseDir:    t.TempDir(),
		RawDir:     "raw",
		TickersDir: "tickers",
		ReportsDir: "reports",
		LogsDir:    "logs",
		SectorFile: "sector_data.csv",
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	return paths
}

func masterTable(rows [][]string) *dataset.Table {
	return &dataset.Table{Columns: domain.MasterColumns, Rows: rows}
}

func TestCleanDropsInvalidRows(t *testing.T) {
	table := masterTable([][]string{
		{"2023-01-02", "10", "11", "9", "10.5", "1000", "AAA"},
		{"2023-01-03", "10", "11", "9", "", "1000", "AAA"}, // no close
		{"2023-01-02", "10", "11", "9", "10.5", "1000", ""}, // no ticker
	})

	cleaned, stats, err := Clean(table, "master")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.RowsIn)
	assert.Equal(t, 2, stats.RowsDropped)
	assert.Equal(t, 1, stats.RowsOut)
	require.Len(t, cleaned, 1)
	assert.Equal(t, "AAA", cleaned[0].Ticker)
}

func TestCleanForwardFillPerTicker(t *testing.T) {
	table := masterTable([][]string{
		{"2023-01-02", "10", "11", "9", "10", "1000", "AAA"},
		{"2023-01-03", "", "", "", "11", "", "AAA"},
		{"2023-01-02", "", "21", "19", "20", "2000", "BBB"},
	})

	cleaned, stats, err := Clean(table, "master")
	require.NoError(t, err)
	require.Len(t, cleaned, 3)

	// AAA's second row inherits its own previous values.
	assert.Equal(t, 10.0, cleaned[1].Open)
	assert.Equal(t, 11.0, cleaned[1].High)
	assert.Equal(t, 9.0, cleaned[1].Low)
	assert.Equal(t, 1000.0, cleaned[1].Volume)
	assert.Equal(t, 4, stats.CellsFilled)

	// BBB's missing open never inherits from AAA.
	assert.True(t, domain.IsMissing(cleaned[2].Open))
	assert.Equal(t, 2, stats.Tickers)
}

func TestCleanDailyReturn(t *testing.T) {
	table := masterTable([][]string{
		{"2023-01-02", "", "", "", "100", "", "AAA"},
		{"2023-01-03", "", "", "", "110", "", "AAA"},
		{"2023-01-02", "", "", "", "50", "", "BBB"},
	})

	cleaned, _, err := Clean(table, "master")
	require.NoError(t, err)
	require.Len(t, cleaned, 3)

	assert.True(t, domain.IsMissing(cleaned[0].DailyReturn))
	assert.InDelta(t, 0.10, cleaned[1].DailyReturn, 1e-9)
	// The first row of each ticker has no previous close.
	assert.True(t, domain.IsMissing(cleaned[2].DailyReturn))
}

func TestCleanSortsByTickerThenDate(t *testing.T) {
	table := masterTable([][]string{
		{"2023-01-03", "", "", "", "2", "", "BBB"},
		{"2023-01-03", "", "", "", "2", "", "AAA"},
		{"2023-01-02", "", "", "", "1", "", "AAA"},
	})

	cleaned, _, err := Clean(table, "master")
	require.NoError(t, err)
	require.Len(t, cleaned, 3)
	assert.Equal(t, "AAA", cleaned[0].Ticker)
	assert.Equal(t, 1.0, cleaned[0].Close)
	assert.Equal(t, "BBB", cleaned[2].Ticker)
}

func TestCleanSchemaError(t *testing.T) {
	table := &dataset.Table{Columns: []string{"foo", "bar"}}
	_, _, err := Clean(table, "master")
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestCleanerRun(t *testing.T) {
	paths := testPaths(t)
	master := "date,open,high,low,close,volume,ticker\n" +
		"2023-01-02,10,11,9,10,1000,AAA\n" +
		"2023-01-03,,,,11,,AAA\n"
	require.NoError(t, os.WriteFile(paths.MasterCSV, []byte(master), 0644))

	cleaner := NewCleaner(paths, nil)
	stats, err := cleaner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsOut)

	table, err := dataset.ReadTable(paths.CleanedCSV)
	require.NoError(t, err)
	assert.Equal(t, domain.CleanedColumns, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.InDelta(t, 0.1, dataset.ParseFloat(table.Rows[1][7]), 1e-9)
}

func TestCleanerRunMissingMaster(t *testing.T) {
	paths := testPaths(t)
	cleaner := NewCleaner(paths, nil)
	_, err := cleaner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingInput(err))
}
