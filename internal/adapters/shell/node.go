package shell

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.weft.build/weft/internal/core/ports"
)

// NodeID is the unique identifier for the Executor adapter Graft node.
const NodeID graft.ID = "adapter.executor"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Executor, error) {
			shell := os.Getenv("SHELL")
			return NewExecutor(shell), nil
		},
	})
}
