package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/pkg/contracts/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTableStripsBOM(t *testing.T) {
	path := writeFile(t, "data.csv", "\xEF\xBB\xBFdate,close\n2023-01-02,100\n")

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "close"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "100", table.Rows[0][1])
}

func TestReadTableRaggedRows(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b,c\n1,2\n1,2,3,4\n")
	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCleanColumn(t *testing.T) {
	assert.Equal(t, "date", CleanColumn(" date "))
	assert.Equal(t, "date", CleanColumn("\ufeffdate"))
	assert.Equal(t, "date", CleanColumn("\u200Bdate"))
}

func TestIndexAndDetect(t *testing.T) {
	table := &Table{Columns: []string{"Date", "Close Price", "Symbol"}}

	assert.Equal(t, 0, table.Index("date"))
	assert.Equal(t, -1, table.Index("close"))

	assert.Equal(t, 1, table.Detect("close"))
	assert.Equal(t, 2, table.Detect("ticker", "symbol"))
	assert.Equal(t, -1, table.Detect("volume"))
}

func TestMissingColumns(t *testing.T) {
	table := &Table{Columns: []string{"date", "close", "ticker"}}
	missing := table.MissingColumns(domain.MasterColumns)
	assert.Equal(t, []string{"open", "high", "low", "volume"}, missing)
}

func TestPriceRows(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "open", "high", "low", "close", "volume", "ticker"},
		Rows: [][]string{
			{"2023-01-02", "10", "11", "9", "10.5", "1000", "AAA"},
			{"", "", "", "", "bad", "", "BBB"},
		},
	}
	rows := table.PriceRows()
	require.Len(t, rows, 2)

	assert.Equal(t, "AAA", rows[0].Ticker)
	assert.Equal(t, 10.5, rows[0].Close)
	assert.False(t, rows[0].Date.IsZero())

	assert.True(t, rows[1].Date.IsZero())
	assert.True(t, domain.IsMissing(rows[1].Close))
}

func TestFlexiblePriceRows(t *testing.T) {
	table := &Table{
		Columns: []string{"Trade Date", "Opening", "High", "Low", "Closing Price", "Vol", "Symbol"},
		Rows: [][]string{
			{"2023-01-02", "10", "11", "9", "10.5", "1000", "AAA"},
		},
	}
	rows := table.FlexiblePriceRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "AAA", rows[0].Ticker)
	assert.Equal(t, 10.5, rows[0].Close)
	assert.Equal(t, 1000.0, rows[0].Volume)
	assert.False(t, rows[0].Date.IsZero())
}

func TestCleanRows(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "open", "high", "low", "close", "volume", "ticker", "daily_return"},
		Rows: [][]string{
			{"2023-01-02", "10", "11", "9", "10.5", "1000", "AAA", ""},
			{"2023-01-03", "10", "11", "9", "11", "1000", "AAA", "0.0476"},
		},
	}
	rows := table.CleanRows()
	require.Len(t, rows, 2)
	assert.True(t, domain.IsMissing(rows[0].DailyReturn))
	assert.Equal(t, 0.0476, rows[1].DailyReturn)
}
