package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.weft.build/weft/internal/adapters/fs"
)

func TestVerifier_VerifyOutputs_AllPatternsMatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "out.bin"), []byte("x"), 0o600))

	v := fs.NewVerifier()
	ok, err := v.VerifyOutputs(root, []string{"dist/*"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifier_VerifyOutputs_MissingPattern(t *testing.T) {
	root := t.TempDir()

	v := fs.NewVerifier()
	ok, err := v.VerifyOutputs(root, []string{"dist/*"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifier_VerifyOutputs_NoDeclaredOutputsTriviallyVerifies(t *testing.T) {
	v := fs.NewVerifier()
	ok, err := v.VerifyOutputs(t.TempDir(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
