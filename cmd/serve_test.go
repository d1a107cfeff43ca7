package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBreachFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.breach"), []byte("¦html\nhi"), 0o644))

	path, err := findBreachFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site.breach"), path)
}

func TestFindBreachFileMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	_, err := findBreachFile(dir)
	assert.ErrorContains(t, err, "no .breach file found")
}

func TestFindBreachFileSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.breach"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.breach"), []byte("¦html\nhi"), 0o644))

	path, err := findBreachFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "real.breach"), path)
}
