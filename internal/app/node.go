package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.weft.build/weft/internal/adapters/analyzer"
	"go.weft.build/weft/internal/adapters/cas"
	"go.weft.build/weft/internal/adapters/config"
	"go.weft.build/weft/internal/adapters/fs"
	"go.weft.build/weft/internal/adapters/logger"
	"go.weft.build/weft/internal/adapters/shell"
	"go.weft.build/weft/internal/adapters/telemetry"
	"go.weft.build/weft/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			logger.NodeID,
			analyzer.NodeID,
			cas.StateStoreNodeID,
			cas.ObjectStoreNodeID,
			telemetry.NodeID,
			fs.VerifierNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	an, err := graft.Dep[ports.ChangeAnalyzer](ctx)
	if err != nil {
		return nil, err
	}
	stateStore, err := graft.Dep[ports.BuildStateStore](ctx)
	if err != nil {
		return nil, err
	}
	objectStore, err := graft.Dep[ports.ObjectStore](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, log, an, stateStore, objectStore, tracer, verifier), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{App: a, Logger: log}, nil
}
