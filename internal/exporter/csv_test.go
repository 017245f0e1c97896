package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	writer := NewCSVWriter()
	err := writer.WriteSimpleCSV(path, []string{"ticker", "close"}, [][]string{
		{"AAA", "10.5"},
		{"BBB", ""},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// BOM prefix for spreadsheet compatibility.
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
	assert.Equal(t, "ticker,close\nAAA,10.5\nBBB,\n", string(content[3:]))
}

func TestWriteCSVWithoutBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	writer := NewCSVWriter()
	err := writer.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(content))
}

func TestWriteCSVReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter()

	require.NoError(t, writer.WriteSimpleCSV(path, []string{"a"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteSimpleCSV(path, []string{"a"}, [][]string{{"3"}}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n3\n", string(content[3:]))
}

func TestStreamWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.csv")

	writer := NewCSVWriter()
	stream, err := writer.CreateStreamWriter(path, []string{"ticker", "close"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"AAA", "10"}))
	require.NoError(t, stream.WriteRecord([]string{"BBB", "20"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ticker,close\nAAA,10\nBBB,20\n", string(content[3:]))
}
