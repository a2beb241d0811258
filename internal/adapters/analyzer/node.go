package analyzer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.weft.build/weft/internal/adapters/fs"
	"go.weft.build/weft/internal/core/ports"
)

// NodeID is the unique identifier for the ChangeAnalyzer adapter Graft node.
const NodeID graft.ID = "adapter.analyzer"

func init() {
	graft.Register(graft.Node[ports.ChangeAnalyzer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.ChangeAnalyzer, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewGitAnalyzer(hasher), nil
		},
	})
}
