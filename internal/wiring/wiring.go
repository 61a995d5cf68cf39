// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mk/internal/adapters/config"
	_ "go.trai.ch/mk/internal/adapters/fs"
	_ "go.trai.ch/mk/internal/adapters/logger"
	_ "go.trai.ch/mk/internal/adapters/shell"
	_ "go.trai.ch/mk/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/mk/internal/app"
	_ "go.trai.ch/mk/internal/engine/planner"
	_ "go.trai.ch/mk/internal/engine/resolver"
	_ "go.trai.ch/mk/internal/engine/scheduler"
)
