package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.weft.build/weft/internal/adapters/shell"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
)

type bufferHandle struct {
	stdout, stderr bytes.Buffer
}

func (h *bufferHandle) Stdout() io.Writer                { return &h.stdout }
func (h *bufferHandle) Stderr() io.Writer                { return &h.stderr }
func (h *bufferHandle) Complete(_ string, _ bool) string { return h.stdout.String() }
func (h *bufferHandle) Close()                           {}
func (h *bufferHandle) WroteStderr() bool                { return h.stderr.Len() > 0 }

var _ ports.Handle = (*bufferHandle)(nil)

func TestExecutor_Execute_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	exec := shell.NewExecutor("")
	handle := &bufferHandle{}

	task := domain.Task{
		Name:    domain.NewInternedString("greet"),
		Project: domain.Project{Name: domain.NewInternedString("greet"), Dir: t.TempDir()},
		Command: "echo hello",
	}

	err := exec.Execute(context.Background(), task, handle)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", handle.stdout.String())
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	exec := shell.NewExecutor("")
	handle := &bufferHandle{}

	task := domain.Task{
		Name:    domain.NewInternedString("fail"),
		Project: domain.Project{Name: domain.NewInternedString("fail"), Dir: t.TempDir()},
		Command: "exit 3",
	}

	err := exec.Execute(context.Background(), task, handle)
	require.Error(t, err)

	var failure *domain.CommandFailure
	require.True(t, errors.As(err, &failure), "error chain must carry a *domain.CommandFailure")
	assert.Equal(t, 3, failure.ExitCode)
}

func TestExecutor_Execute_CapturesStderrTail(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	exec := shell.NewExecutor("")
	handle := &bufferHandle{}

	task := domain.Task{
		Name:    domain.NewInternedString("fail"),
		Project: domain.Project{Name: domain.NewInternedString("fail"), Dir: t.TempDir()},
		Command: "echo boom >&2; exit 1",
	}

	err := exec.Execute(context.Background(), task, handle)
	require.Error(t, err)

	var failure *domain.CommandFailure
	require.True(t, errors.As(err, &failure))
	assert.Contains(t, failure.StderrTail, "boom")
	assert.Contains(t, handle.stderr.String(), "boom", "stderr must still reach the handle in addition to the tail")
}

func TestExecutor_Execute_EmptyCommandIsNoOp(t *testing.T) {
	exec := shell.NewExecutor("")
	handle := &bufferHandle{}

	task := domain.Task{
		Name:    domain.NewInternedString("noop"),
		Project: domain.Project{Name: domain.NewInternedString("noop"), Dir: t.TempDir()},
		Command: "",
	}

	err := exec.Execute(context.Background(), task, handle)
	require.NoError(t, err)
	assert.Empty(t, handle.stdout.String())
}

func TestExecutor_Execute_LocalBinPrependedToPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	exec := shell.NewExecutor("")
	handle := &bufferHandle{}

	task := domain.Task{
		Name:    domain.NewInternedString("path"),
		Project: domain.Project{Name: domain.NewInternedString("path"), Dir: t.TempDir()},
		Command: "echo $PATH",
	}

	err := exec.Execute(context.Background(), task, handle)
	require.NoError(t, err)
	assert.Contains(t, handle.stdout.String(), "node_modules/.bin")
}
