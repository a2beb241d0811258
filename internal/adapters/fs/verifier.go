package fs

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

// Verifier checks that a task's declared output globs actually matched
// something on disk after its command ran.
type Verifier struct{}

// NewVerifier creates a Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyOutputs reports whether every glob pattern in outputs (each
// relative to root) matches at least one file. A task with no declared
// outputs trivially verifies.
func (v *Verifier) VerifyOutputs(root string, outputs []string) (bool, error) {
	for _, pattern := range outputs {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, "invalid output pattern"), "pattern", pattern)
		}
		if len(matches) == 0 {
			return false, nil
		}
	}
	return true, nil
}
