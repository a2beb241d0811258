package ports

// Hasher defines the interface for computing a streaming content hash of
// a single file, used by ChangeAnalyzer implementations for untracked
// files that have no VCS object hash.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashFile returns the content hash of the file at path.
	HashFile(path string) (string, error)
}
