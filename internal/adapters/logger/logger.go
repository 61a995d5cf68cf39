// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Logger implements ports.Logger using log/slog. Output goes to stderr as a
// text stream so recipe stdout stays clean for pipelines. Every invocation
// gets a run id so interleaved logs from concurrent builds can be told apart.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
	out    io.Writer
	level  slog.Level
	runID  string
}

// New creates a new Logger at the default info level.
func New() *Logger {
	l := &Logger{
		out:   os.Stderr,
		level: slog.LevelInfo,
		runID: uuid.NewString()[:8],
	}
	l.rebuild()
	return l
}

// SetOutput redirects log output. Safe for concurrent use.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.rebuild()
}

// SetLevel changes the minimum level that gets emitted. Safe for concurrent
// use; the verbose CLI flag maps to slog.LevelDebug.
func (l *Logger) SetLevel(level slog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.rebuild()
}

// rebuild replaces the slog instance; callers hold l.mu.
func (l *Logger) rebuild() {
	handler := slog.NewTextHandler(l.out, &slog.HandlerOptions{
		Level: l.level,
	})
	l.logger = slog.New(handler).With("run", l.runID)
}

// Debug logs a trace message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}
