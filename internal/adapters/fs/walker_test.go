package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.weft.build/weft/internal/adapters/fs"
)

func collect(w *fs.Walker, root string, ignores []string) []string {
	var out []string
	for path := range w.WalkFiles(root, ignores) {
		rel, _ := filepath.Rel(root, path)
		out = append(out, rel)
	}
	slices.Sort(out)
	return out
}

func TestWalker_WalkFiles_SkipsGitAndJJ(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".jj"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".jj", "state"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o600))

	w := fs.NewWalker()
	got := collect(w, root, nil)
	assert.Equal(t, []string{"main.go"}, got)
}

func TestWalker_WalkFiles_RespectsIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.log"), []byte("x"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "out.bin"), []byte("x"), 0o600))

	w := fs.NewWalker()
	got := collect(w, root, []string{"*.log", "dist"})
	assert.Equal(t, []string{"main.go"}, got)
}

func TestWalker_WalkFiles_EarlyStopHonored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("x"), 0o600))

	w := fs.NewWalker()
	count := 0
	for range w.WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
