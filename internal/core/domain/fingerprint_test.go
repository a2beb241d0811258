package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.weft.build/weft/internal/core/domain"
)

func sampleFiles() *domain.FileHashMap {
	files := domain.NewFileHashMap()
	files.Set("main.go", "hash1")
	files.Set("util.go", "hash2")
	return files
}

func TestComputeFingerprint_Deterministic(t *testing.T) {
	a := domain.ComputeFingerprint("go build ./...", sampleFiles(), "go1.25", "cfg1")
	b := domain.ComputeFingerprint("go build ./...", sampleFiles(), "go1.25", "cfg1")
	assert.Equal(t, a, b)
}

func TestComputeFingerprint_SensitiveToCommand(t *testing.T) {
	a := domain.ComputeFingerprint("go build ./...", sampleFiles(), "go1.25", "cfg1")
	b := domain.ComputeFingerprint("go test ./...", sampleFiles(), "go1.25", "cfg1")
	assert.NotEqual(t, a, b)
}

func TestComputeFingerprint_SensitiveToFileContent(t *testing.T) {
	files := sampleFiles()
	a := domain.ComputeFingerprint("go build ./...", files, "go1.25", "cfg1")

	changed := domain.NewFileHashMap()
	changed.Set("main.go", "hash1-changed")
	changed.Set("util.go", "hash2")
	b := domain.ComputeFingerprint("go build ./...", changed, "go1.25", "cfg1")

	assert.NotEqual(t, a, b)
}

func TestComputeFingerprint_SensitiveToToolAndConfigTags(t *testing.T) {
	base := domain.ComputeFingerprint("go build ./...", sampleFiles(), "go1.25", "cfg1")

	differentTool := domain.ComputeFingerprint("go build ./...", sampleFiles(), "go1.24", "cfg1")
	assert.NotEqual(t, base, differentTool)

	differentConfig := domain.ComputeFingerprint("go build ./...", sampleFiles(), "go1.25", "cfg2")
	assert.NotEqual(t, base, differentConfig)
}

func TestComputeFingerprint_FieldBoundaryNotAmbiguous(t *testing.T) {
	// "ab"+"c" must not fingerprint the same as "a"+"bc".
	f1 := domain.NewFileHashMap()
	f1.Set("ab", "c")
	f2 := domain.NewFileHashMap()
	f2.Set("a", "bc")

	a := domain.ComputeFingerprint("", f1, "", "")
	b := domain.ComputeFingerprint("", f2, "", "")
	assert.NotEqual(t, a, b)
}
