package ports

import "go.weft.build/weft/internal/core/domain"

// ChangeAnalyzer defines the interface for producing a project's current
// file-hash map.
//
//go:generate go run go.uber.org/mock/mockgen -source=analyzer.go -destination=mocks/mock_analyzer.go -package=mocks
type ChangeAnalyzer interface {
	// Analyze computes the file-hash map for every tracked and untracked,
	// non-ignored file under dir. Returns domain.ErrAnalyzerUnavailable if
	// the directory has no usable VCS state; the caller degrades the task
	// to always-run rather than treating that as fatal.
	Analyze(dir string, ignorePatterns []string) (*domain.FileHashMap, error)
}
