package ports

import "go.weft.build/weft/internal/core/domain"

// ConfigLoader defines the interface for loading the workspace configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers every project under the workspace root and returns
	// the resulting project graph.
	Load(root string) (*domain.ProjectGraph, error)
}
