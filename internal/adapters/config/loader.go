// Package config provides the workspace-glob YAML configuration loader.
package config

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"sync"

	"go.trai.ch/zerr"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	workspaceFilename = "weft.work.yaml"
	projectFilename   = "weft.yaml"
)

var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Loader implements ports.ConfigLoader by discovering a weft.work.yaml at
// the workspace root and expanding its project globs into individual
// weft.yaml project files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// workspaceFile is the root weft.work.yaml shape.
type workspaceFile struct {
	Version  string   `yaml:"version"`
	Projects []string `yaml:"projects"`
}

// projectFile is a per-project weft.yaml shape.
type projectFile struct {
	Version        string              `yaml:"version"`
	Project        string              `yaml:"project"`
	Scripts        map[string]string   `yaml:"scripts"`
	Outputs        map[string][]string `yaml:"outputs"`
	DependsOn      []string            `yaml:"dependsOn"`
	CyclicOK       bool                `yaml:"cyclicOk"`
	IgnorePatterns []string            `yaml:"ignore"`
}

// Load discovers every project under root and returns the project graph.
func (l *Loader) Load(root string) (*domain.ProjectGraph, error) {
	wsPath := filepath.Join(root, workspaceFilename)
	data, err := os.ReadFile(wsPath) //nolint:gosec // path is workspace-root-relative, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return l.loadStandalone(root)
		}
		return nil, zerr.Wrap(err, "failed to read workspace file")
	}

	var ws workspaceFile
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, zerr.Wrap(err, "failed to parse workspace file")
	}

	dirs, err := l.expandGlobs(root, ws.Projects)
	if err != nil {
		return nil, err
	}

	return l.buildGraph(root, dirs)
}

// loadStandalone handles a workspace with no weft.work.yaml: a single
// project rooted at root.
func (l *Loader) loadStandalone(root string) (*domain.ProjectGraph, error) {
	return l.buildGraph(root, []string{root})
}

// expandGlobs resolves each project glob (relative to root) to a sorted,
// deduplicated list of absolute directories.
func (l *Loader) expandGlobs(root string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid workspace glob"), "pattern", pattern)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				dirs = append(dirs, m)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// rawProject holds one directory's parsed weft.yaml, or the sentinel "not
// present" result, before duplicate-name checking folds it into the graph.
type rawProject struct {
	dir    string
	relDir string
	pf     *projectFile // nil if weft.yaml was absent
}

// buildGraph reads every project directory's weft.yaml concurrently and
// assembles the domain.Project set, then builds the graph. I/O is
// parallelized the same way env_factory.go bounds its tool resolution
// fan-out: one errgroup capped at NumCPU, since workspaces with hundreds
// of projects would otherwise serialize on disk latency alone.
func (l *Loader) buildGraph(root string, dirs []string) (*domain.ProjectGraph, error) {
	raw := make([]rawProject, len(dirs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())

	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			relDir, err := filepath.Rel(root, dir)
			if err != nil {
				relDir = dir
			}

			path := filepath.Join(dir, projectFilename)
			data, err := os.ReadFile(path) //nolint:gosec // path is workspace-discovered, not user input
			if err != nil {
				if os.IsNotExist(err) {
					mu.Lock()
					l.Logger.Info("weft.yaml missing in " + dir + ", skipping")
					mu.Unlock()
					raw[i] = rawProject{dir: dir, relDir: relDir}
					return nil
				}
				return zerr.With(zerr.Wrap(err, "failed to read project config"), "dir", dir)
			}

			var pf projectFile
			if err := yaml.Unmarshal(data, &pf); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to parse project config"), "dir", dir)
			}
			raw[i] = rawProject{dir: dir, relDir: relDir, pf: &pf}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var projects []domain.Project
	seenNames := make(map[string]string) // project name -> rel dir of first occurrence

	for _, r := range raw {
		if r.pf == nil {
			continue
		}
		pf := r.pf

		if pf.Project == "" {
			return nil, zerr.With(zerr.New("missing project name"), "dir", r.dir)
		}
		if !projectNamePattern.MatchString(pf.Project) {
			return nil, zerr.With(zerr.New("project name can only contain letters, digits, '-' and '_'"), "project", pf.Project)
		}

		if first, exists := seenNames[pf.Project]; exists {
			return nil, zerr.With(
				zerr.With(zerr.With(zerr.New("duplicate project name"), "project_name", pf.Project),
					"first_occurrence", first),
				"duplicate_at", r.relDir,
			)
		}
		seenNames[pf.Project] = r.relDir

		projects = append(projects, domain.Project{
			Name:           domain.NewInternedString(pf.Project),
			Dir:            r.dir,
			RelDir:         r.relDir,
			Scripts:        pf.Scripts,
			Outputs:        pf.Outputs,
			DependsOn:      internNames(pf.DependsOn),
			CyclicOK:       pf.CyclicOK,
			IgnorePatterns: pf.IgnorePatterns,
		})
	}

	return domain.BuildProjectGraph(projects)
}

func internNames(names []string) []domain.InternedString {
	out := make([]domain.InternedString, len(names))
	for i, n := range names {
		out[i] = domain.NewInternedString(n)
	}
	return out
}

var _ ports.ConfigLoader = (*Loader)(nil)
