package cas

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.weft.build/weft/internal/core/ports"
)

// StateStoreNodeID is the unique identifier for the BuildStateStore adapter Graft node.
const StateStoreNodeID graft.ID = "adapter.state_store"

// ObjectStoreNodeID is the unique identifier for the ObjectStore adapter Graft node.
const ObjectStoreNodeID graft.ID = "adapter.object_store"

// cacheDir is the workspace-relative directory holding the object
// store's sharded archive tree. Build state lives per-project instead
// (see stateDirName in state_store.go).
const cacheDir = ".weft"

func init() {
	graft.Register(graft.Node[ports.BuildStateStore]{
		ID:        StateStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildStateStore, error) {
			return NewStateStore(), nil
		},
	})

	graft.Register(graft.Node[ports.ObjectStore]{
		ID:        ObjectStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ObjectStore, error) {
			return NewObjectStore(filepath.Join(cacheDir, "cache"), false), nil
		},
	})
}
