// Package analyzer implements the change analyzer using git as the
// source of truth for tracked-file identity and an xxhash streaming hash
// for untracked files.
package analyzer

import (
	"bufio"
	"os/exec"
	"path/filepath"
	"strings"

	"go.weft.build/weft/internal/adapters/fs"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangeAnalyzer = (*GitAnalyzer)(nil)

// GitAnalyzer computes a project's file-hash map from `git ls-files`
// output: the blob object hash for every tracked file, plus a content
// hash for every untracked-but-not-ignored file.
type GitAnalyzer struct {
	hasher ports.Hasher
	walker *fs.Walker
}

// NewGitAnalyzer creates a GitAnalyzer.
func NewGitAnalyzer(hasher ports.Hasher) *GitAnalyzer {
	return &GitAnalyzer{hasher: hasher, walker: fs.NewWalker()}
}

// Analyze returns domain.ErrAnalyzerUnavailable if dir isn't inside a git
// working tree or the git binary can't be found.
func (a *GitAnalyzer) Analyze(dir string, ignorePatterns []string) (*domain.FileHashMap, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, zerr.Wrap(domain.ErrAnalyzerUnavailable, "git binary not found")
	}

	m := domain.NewFileHashMap()

	if err := a.addTrackedFiles(dir, ignorePatterns, m); err != nil {
		return nil, err
	}

	if err := a.addUntrackedFiles(dir, ignorePatterns, m); err != nil {
		return nil, err
	}

	return m, nil
}

// addTrackedFiles runs `git ls-files -s` and records each tracked file's
// blob object hash, which git already maintains content-addressed.
func (a *GitAnalyzer) addTrackedFiles(dir string, ignorePatterns []string, m *domain.FileHashMap) error {
	cmd := exec.Command("git", "ls-files", "-s")
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return zerr.Wrap(domain.ErrAnalyzerUnavailable, "not a git working tree")
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		// format: "<mode> <blob-hash> <stage>\t<path>"
		line := scanner.Text()
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		path := line[tab+1:]
		if matchesIgnorePattern(path, ignorePatterns) {
			continue
		}

		fields := strings.Fields(line[:tab])
		if len(fields) < 2 {
			continue
		}
		m.Set(path, fields[1])
	}

	return nil
}

// addUntrackedFiles runs `git ls-files --others --exclude-standard` (which
// already honors .gitignore) and streams an xxhash content hash for each
// remaining untracked file, so new-but-not-yet-committed work still
// participates in change detection.
func (a *GitAnalyzer) addUntrackedFiles(dir string, ignorePatterns []string, m *domain.FileHashMap) error {
	cmd := exec.Command("git", "ls-files", "--others", "--exclude-standard")
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return zerr.Wrap(domain.ErrAnalyzerUnavailable, "failed to list untracked files")
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		path := scanner.Text()
		if path == "" || matchesIgnorePattern(path, ignorePatterns) {
			continue
		}

		hash, err := a.hasher.HashFile(filepath.Join(dir, path))
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to hash untracked file"), "path", path)
		}
		m.Set(path, hash)
	}

	return nil
}

func matchesIgnorePattern(path string, ignorePatterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range ignorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
