// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.weft.build/weft/internal/adapters/analyzer"
	_ "go.weft.build/weft/internal/adapters/cas"
	_ "go.weft.build/weft/internal/adapters/config"
	_ "go.weft.build/weft/internal/adapters/fs"
	_ "go.weft.build/weft/internal/adapters/logger"
	_ "go.weft.build/weft/internal/adapters/shell"
	_ "go.weft.build/weft/internal/adapters/telemetry"
	// Register the app node.
	_ "go.weft.build/weft/internal/app"
)
