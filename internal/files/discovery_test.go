package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFindRawFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.yaml"))
	touch(t, filepath.Join(dir, "a.yml"))
	touch(t, filepath.Join(dir, "sheet.xlsx"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "2023", "q1.yaml"))

	found, err := NewDiscovery("").FindRawFiles(dir)
	require.NoError(t, err)
	require.Len(t, found, 4)

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	// Recursive walk, path-sorted, non-raw extensions excluded.
	assert.Equal(t, []string{"q1.yaml", "a.yml", "b.yaml", "sheet.xlsx"}, names)
}

func TestFindRawFilesMissingDir(t *testing.T) {
	_, err := NewDiscovery("").FindRawFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "BBB.csv"))
	touch(t, filepath.Join(dir, "AAA.csv"))
	touch(t, filepath.Join(dir, "readme.md"))
	touch(t, filepath.Join(dir, "sub", "CCC.csv")) // flat scan only

	found, err := NewDiscovery("").FindCSVFiles(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "AAA.csv", found[0].Name)
	assert.Equal(t, "BBB.csv", found[1].Name)
}
