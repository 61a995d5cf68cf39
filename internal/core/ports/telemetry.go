package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry is the entry point for recording build progress.
type Telemetry interface {
	// Record opens a vertex for one unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the underlying display.
	Close() error
}

// Vertex represents one unit of work in the progress display.
type Vertex interface {
	// Stdout returns the writer recipe standard output streams to.
	Stdout() io.Writer
	// Stderr returns the writer recipe standard error streams to.
	Stderr() io.Writer
	// Complete finishes the vertex, recording err when non-nil.
	Complete(err error)
	// Cached marks the vertex as satisfied without running.
	Cached()
}
