package app

import "go.trai.ch/mk/internal/core/ports"

// Components contains the initialized application components the CLI layer
// needs: the app itself, the logger for error reporting and verbosity
// control, and the telemetry recorder to flush at exit.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}
