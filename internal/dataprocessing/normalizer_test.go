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
)

func writeRaw(t *testing.T, paths *config.Paths, name, content string) {
	t.Helper()
	path := filepath.Join(paths.RawDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNormalizerListShape(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "a.yaml", `
- Ticker: AAA
  date: "2023-01-03"
  open: 10
  high: 11
  low: 9
  close: 10.5
  volume: 1000
- Ticker: AAA
  date: "2023-01-02"
  open: 9
  high: 10
  low: 8
  close: 9.5
  volume: 900
`)

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesScanned)
	assert.Equal(t, 2, stats.RecordsAccepted)
	assert.Equal(t, 1, stats.Tickers)

	table, err := dataset.ReadTable(paths.TickerCSV("AAA"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	// Each ticker's series comes out date-sorted.
	assert.Equal(t, "2023-01-02", table.Rows[0][0])
	assert.Equal(t, "2023-01-03", table.Rows[1][0])
}

func TestNormalizerDailyShape(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "b.yml", `
daily:
  - ticker: BBB
    date: "2023-01-02"
    close: 50
  - ticker: BBB
    date: "2023-01-03"
    close: 45
`)

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecordsAccepted)

	table, err := dataset.ReadTable(paths.TickerCSV("BBB"))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestNormalizerSingleRecordShape(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "c.yaml", `
Ticker: CCC
date: "2023-01-02"
close: 10
`)

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecordsAccepted)
}

func TestNormalizerNestedMapShape(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "d.yaml", `
entry_1:
  ticker: DDD
  date: "2023-01-02"
  close: 7
entry_2:
  - ticker: EEE
    date: "2023-01-02"
    close: 3
`)

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecordsAccepted)
	assert.Equal(t, 2, stats.Tickers)
}

func TestNormalizerSkipsUnusableRecords(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "e.yaml", `
- Ticker: AAA
  date: "2023-01-02"
  close: 10
- Ticker: ""
  date: "2023-01-02"
  close: 10
- Ticker: FFF
  date: "2023-01-02"
`)

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecordsAccepted)
	assert.Equal(t, 2, stats.RecordsSkipped)
}

func TestNormalizerSkipsMalformedFile(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "good.yaml", "- {Ticker: AAA, date: \"2023-01-02\", close: 10}\n")
	writeRaw(t, paths, "bad.yaml", ": not yaml\n\t")

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 1, stats.RecordsAccepted)
}

func TestNormalizerWalksSubdirectories(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, filepath.Join("2023", "q1.yaml"), "- {Ticker: AAA, date: \"2023-01-02\", close: 10}\n")

	stats, err := NewNormalizer(paths, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecordsAccepted)
}

func TestNormalizerNoRawDir(t *testing.T) {
	paths := testPaths(t)
	_, err := NewNormalizer(paths, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingInput(err))
}

func TestNormalizerNoUsableRecords(t *testing.T) {
	paths := testPaths(t)
	writeRaw(t, paths, "empty.yaml", "[]\n")

	_, err := NewNormalizer(paths, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingInput(err))
}
