// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
)

// Executor implements ports.Executor by handing recipes verbatim to the
// command shell. The recipe is a single opaque string; quoting, globbing and
// pipelines are the shell's business, not ours.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the recipe via `sh -c` in the current working directory,
// inheriting the parent environment. Output streams to the provided writers
// as it is produced. A nonzero exit is returned as ErrRecipeFailed with the
// exit code attached; context cancellation kills the shell process.
func (e *Executor) Execute(ctx context.Context, recipe string, stdout, stderr io.Writer) error {
	e.logger.Debug("sh -c " + recipe)

	cmd := exec.CommandContext(ctx, "sh", "-c", recipe) //nolint:gosec // recipes are user-provided by design
	cmd.Env = os.Environ()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zerr.With(zerr.Wrap(ctxErr, "recipe canceled"), "recipe", recipe)
		}
		return zerr.With(zerr.With(zerr.With(domain.ErrRecipeFailed, "recipe", recipe), "exit_code", exitCode), "cause", err.Error())
	}

	return nil
}
