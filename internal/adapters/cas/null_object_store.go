package cas

import (
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
)

var _ ports.ObjectStore = NullObjectStore{}

// NullObjectStore implements ports.ObjectStore as a permanent cache miss:
// every restore misses, every store is a no-op. Used for a --no-cache
// invocation, where the runner's incremental-skip logic still applies but
// the content-addressed cache is bypassed entirely.
type NullObjectStore struct{}

// TryRestore always reports a cache miss.
func (NullObjectStore) TryRestore(_ domain.CacheFingerprint, _ string) (bool, error) {
	return false, nil
}

// TryStore is a no-op.
func (NullObjectStore) TryStore(_ domain.CacheFingerprint, _ string, _ []string) error {
	return nil
}
