// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor defines the interface for running recipes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute hands the recipe verbatim to the command shell, inheriting the
	// parent environment. Command output streams to stdout and stderr as it
	// is produced.
	//
	// It returns an error wrapping ErrRecipeFailed if the shell exits nonzero.
	Execute(ctx context.Context, recipe string, stdout, stderr io.Writer) error
}
