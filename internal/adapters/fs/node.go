package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.weft.build/weft/internal/core/ports"
)

// HasherNodeID is the unique identifier for the Hasher adapter Graft node.
const HasherNodeID graft.ID = "adapter.hasher"

// VerifierNodeID is the unique identifier for the Verifier adapter Graft node.
const VerifierNodeID graft.ID = "adapter.verifier"

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})
}
