package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	apperrors "stocklens/internal/errors"
	"stocklens/pkg/contracts/domain"
)

func writeTickerCSV(t *testing.T, paths *config.Paths, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(paths.TickersDir, name), []byte(content), 0644))
}

func TestConsolidatorRun(t *testing.T) {
	paths := testPaths(t)
	writeTickerCSV(t, paths, "BBB.csv",
		"date,open,high,low,close,volume,ticker\n"+
			"2023-01-02,50,51,49,50,2000,BBB\n")
	writeTickerCSV(t, paths, "AAA.csv",
		"date,open,high,low,close,volume,ticker\n"+
			"2023-01-03,11,12,10,11,1100,AAA\n"+
			"2023-01-02,10,11,9,10,1000,AAA\n"+
			"2023-01-02,10,11,9,10,1000,AAA\n")

	stats, err := NewConsolidator(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.InputFiles)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 3, stats.TotalRows)
	assert.Equal(t, 2, stats.Tickers)

	table, err := dataset.ReadTable(paths.MasterCSV)
	require.NoError(t, err)
	assert.Equal(t, domain.MasterColumns, table.Columns)
	require.Len(t, table.Rows, 3)

	// Sorted by (ticker, date) regardless of file order.
	assert.Equal(t, []string{"2023-01-02", "10", "11", "9", "10", "1000", "AAA"}, table.Rows[0])
	assert.Equal(t, "2023-01-03", table.Rows[1][0])
	assert.Equal(t, "BBB", table.Rows[2][6])
}

func TestConsolidatorKeepsNearDuplicates(t *testing.T) {
	paths := testPaths(t)
	writeTickerCSV(t, paths, "AAA.csv",
		"date,open,high,low,close,volume,ticker\n"+
			"2023-01-02,10,11,9,10,1000,AAA\n"+
			"2023-01-02,10,11,9,10.5,1000,AAA\n")

	stats, err := NewConsolidator(paths, nil).Run(context.Background())
	require.NoError(t, err)
	// One differing cell means the rows are distinct.
	assert.Equal(t, 0, stats.DuplicatesRemoved)
	assert.Equal(t, 2, stats.TotalRows)
}

func TestConsolidatorNoInputFiles(t *testing.T) {
	paths := testPaths(t)
	_, err := NewConsolidator(paths, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingInput(err))
}

func TestConsolidatorMissingDir(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.RemoveAll(paths.TickersDir))
	_, err := NewConsolidator(paths, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingInput(err))
}
