package app

import "go.weft.build/weft/internal/core/ports"

// Components holds every initialized top-level component the CLI layer
// needs, assembled once via Graft at process start.
type Components struct {
	App    *App
	Logger ports.Logger
}
