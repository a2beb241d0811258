package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.weft.build/weft/internal/adapters/config"
)

type recordingLogger struct{ messages []string }

func (l *recordingLogger) Info(msg string) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Error(_ error)   {}

func writeWorkspaceFile(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "weft.work.yaml"), []byte(content), 0o600))
}

func writeProjectFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weft.yaml"), []byte(content), 0o600))
}

func TestLoader_Load_StandaloneProject(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, `
project: app
scripts:
  build: "go build ./..."
`)

	loader := config.NewLoader(&recordingLogger{})
	graph, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, 1, graph.ProjectCount())
}

func TestLoader_Load_WorkspaceWithMultipleProjects(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, `
version: "1"
projects: ["packages/*"]
`)
	writeProjectFile(t, filepath.Join(root, "packages", "api"), `
project: api
scripts:
  build: "go build ./..."
`)
	writeProjectFile(t, filepath.Join(root, "packages", "web"), `
project: web
scripts:
  build: "go build ./..."
dependsOn: ["api"]
`)

	loader := config.NewLoader(&recordingLogger{})
	graph, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.ProjectCount())

	selected, err := graph.Select([]string{"web"}, nil)
	require.NoError(t, err)
	assert.Len(t, selected, 2, "web's upstream closure includes api")
}

func TestLoader_Load_DuplicateProjectName(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, `
version: "1"
projects: ["packages/*"]
`)
	writeProjectFile(t, filepath.Join(root, "packages", "a"), `project: shared`)
	writeProjectFile(t, filepath.Join(root, "packages", "b"), `project: shared`)

	loader := config.NewLoader(&recordingLogger{})
	_, err := loader.Load(root)
	require.Error(t, err)
}

func TestLoader_Load_MissingProjectFileIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, `
version: "1"
projects: ["packages/*"]
`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", "empty"), 0o750))
	writeProjectFile(t, filepath.Join(root, "packages", "real"), `project: real`)

	logger := &recordingLogger{}
	loader := config.NewLoader(logger)
	graph, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, 1, graph.ProjectCount())
	assert.NotEmpty(t, logger.messages)
}

func TestLoader_Load_InvalidProjectName(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, `project: "not a valid name!"`)

	loader := config.NewLoader(&recordingLogger{})
	_, err := loader.Load(root)
	require.Error(t, err)
}
