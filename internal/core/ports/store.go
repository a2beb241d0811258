package ports

import "go.weft.build/weft/internal/core/domain"

// BuildStateStore defines the interface for persisting and retrieving a
// project+script's last-recorded BuildState. Implementations key state
// per-project (spec.md §6's "<project>/<temp>/package-deps.<command>.json"),
// so two tasks in different projects never contend on the same file.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildStateStore interface {
	// Get retrieves the last-recorded build state for projectDir+scriptName.
	// Returns nil, nil if none is recorded yet.
	Get(projectDir, scriptName string) (*domain.BuildState, error)

	// Put persists the build state for projectDir+scriptName.
	Put(projectDir, scriptName string, state domain.BuildState) error

	// Delete removes any recorded build state for projectDir+scriptName.
	// Called before a task re-executes its command, so a rebuild
	// interrupted before Put runs never leaves a stale success record
	// behind to be wrongly matched by a later invocation.
	Delete(projectDir, scriptName string) error
}

// ObjectStore defines the interface for the content-addressed cache of
// task output directories.
type ObjectStore interface {
	// TryRestore attempts to materialize the outputs recorded under
	// fingerprint into destDir. Returns false, nil on a cache miss.
	TryRestore(fingerprint domain.CacheFingerprint, destDir string) (bool, error)

	// TryStore archives the given output paths (relative to baseDir) under
	// fingerprint. A second Store of the same fingerprint is a no-op.
	TryStore(fingerprint domain.CacheFingerprint, baseDir string, outputs []string) error
}
