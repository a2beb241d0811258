// Package cas implements the content-addressed cache: a per-project
// JSON build-state file (one per project+script), and a tar+zstd object
// store keyed by cache fingerprint.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
)

var _ ports.BuildStateStore = (*StateStore)(nil)

// stateDirName is the project-local folder holding a project's per-script
// build state files, per spec.md §6's
// "<project>/<temp>/package-deps.<command>.json" layout.
const stateDirName = ".weft"

// StateStore implements ports.BuildStateStore as one JSON file per
// project+script rather than a single shared file, so state files are
// per-project and tasks in different projects never contend with each
// other on the same file or lock.
type StateStore struct {
	locks sync.Map // path (string) -> *sync.Mutex
}

// NewStateStore creates a StateStore. State files are created lazily,
// one per project+script, under each project's stateDirName.
func NewStateStore() *StateStore {
	return &StateStore{}
}

func statePath(projectDir, scriptName string) string {
	return filepath.Join(projectDir, stateDirName, "package-deps."+scriptName+".json")
}

func (s *StateStore) lockFor(path string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(path, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Get retrieves the last-recorded build state for projectDir+scriptName.
func (s *StateStore) Get(projectDir, scriptName string) (*domain.BuildState, error) {
	path := statePath(projectDir, scriptName)
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from caller-controlled project dirs
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read build state file")
	}
	if len(data) == 0 {
		return nil, nil
	}

	var state domain.BuildState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal build state file")
	}
	return &state, nil
}

// Put persists state for projectDir+scriptName, writing atomically
// (write-to-temp-then-rename) so a reader never observes a partial file.
func (s *StateStore) Put(projectDir, scriptName string, state domain.BuildState) error {
	path := statePath(projectDir, scriptName)
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build state")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for build state file")
	}

	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp build state file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		return zerr.Wrap(err, "failed to write temp build state file")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp build state file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.Wrap(err, "failed to rename build state file into place")
	}

	return nil
}

// Delete removes any recorded build state for projectDir+scriptName. A
// missing file is not an error: absence already means "never built".
func (s *StateStore) Delete(projectDir, scriptName string) error {
	path := statePath(projectDir, scriptName)
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to delete build state file")
	}
	return nil
}
