package ports

import (
	"context"

	"go.weft.build/weft/internal/core/domain"
)

// Executor defines the interface for running one task's shell command.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs task.Command in task.Project.Dir, streaming stdout and
	// stderr into handle. Returns a *domain.CommandFailure wrapped via
	// zerr if the command exits non-zero.
	Execute(ctx context.Context, task domain.Task, handle Handle) error
}
