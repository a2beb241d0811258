package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.weft.build/weft/internal/adapters/fs"
)

func TestHasher_HashFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	h := fs.NewHasher()
	h1, err := h.HashFile(path)
	require.NoError(t, err)
	h2, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHasher_HashFile_DiffersOnContent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.txt")
	pathB := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(pathA, []byte("one"), 0o600))
	require.NoError(t, os.WriteFile(pathB, []byte("two"), 0o600))

	h := fs.NewHasher()
	ha, err := h.HashFile(pathA)
	require.NoError(t, err)
	hb, err := h.HashFile(pathB)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestHasher_HashFile_MissingFile(t *testing.T) {
	h := fs.NewHasher()
	_, err := h.HashFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
