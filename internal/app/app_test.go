package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/mk/internal/adapters/config"
	"go.trai.ch/mk/internal/adapters/fs"
	"go.trai.ch/mk/internal/adapters/logger"
	"go.trai.ch/mk/internal/adapters/shell"
	"go.trai.ch/mk/internal/adapters/telemetry"
	"go.trai.ch/mk/internal/app"
	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/engine/planner"
	"go.trai.ch/mk/internal/engine/resolver"
	"go.trai.ch/mk/internal/engine/scheduler"
)

// newApp assembles the application from real adapters, the same shape the
// graft wiring produces, minus the progrock tape.
func newApp(t *testing.T) *app.App {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	filesystem := fs.New()
	return app.New(
		config.NewLoader(log),
		fs.NewLocker(),
		resolver.NewResolver(filesystem, log),
		planner.NewPlanner(filesystem, log),
		scheduler.NewScheduler(shell.NewExecutor(log), filesystem, telemetry.NewNoop(), log),
		log,
	)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func workspace(t *testing.T, rules string) (dir string, opts app.RunOptions) {
	t.Helper()
	dir = t.TempDir()
	conf := filepath.Join(dir, "mk.yaml")
	writeFile(t, conf, rules)
	return dir, app.RunOptions{ConfigFile: conf}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func mtime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

func TestRunBuildsStaleAndSkipsFresh(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: all
    prereqs: ['x.out', 'y.out']
  - target: 'x\.out'
    prereqs: ['x.in']
    recipe: 'cp x.in x.out'
  - target: 'y\.out'
    prereqs: ['y.in']
    recipe: 'cp y.in y.out'
`)

	old := time.Now().Add(-time.Hour)
	older := old.Add(-time.Hour)

	// x.in is newer than x.out, y.in is older than y.out.
	writeFile(t, filepath.Join(dir, "x.in"), "fresh x")
	writeFile(t, filepath.Join(dir, "x.out"), "stale x")
	touch(t, filepath.Join(dir, "x.out"), older)
	touch(t, filepath.Join(dir, "x.in"), old)

	writeFile(t, filepath.Join(dir, "y.in"), "y source")
	writeFile(t, filepath.Join(dir, "y.out"), "y built")
	touch(t, filepath.Join(dir, "y.in"), older)
	touch(t, filepath.Join(dir, "y.out"), old)
	yBefore := mtime(t, filepath.Join(dir, "y.out"))

	require.NoError(t, newApp(t).Run(context.Background(), []string{"all"}, opts))

	assert.Equal(t, "fresh x", readFile(t, filepath.Join(dir, "x.out")))
	assert.Equal(t, yBefore, mtime(t, filepath.Join(dir, "y.out")), "y.out must stay untouched")
}

func TestRunIdempotent(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: out
    prereqs: [in]
    recipe: 'cp in out && echo ran >> trace'
`)
	writeFile(t, filepath.Join(dir, "in"), "input")
	touch(t, filepath.Join(dir, "in"), time.Now().Add(-time.Hour))

	a := newApp(t)
	require.NoError(t, a.Run(context.Background(), []string{"out"}, opts))
	require.NoError(t, a.Run(context.Background(), []string{"out"}, opts))

	assert.Equal(t, "ran\n", readFile(t, filepath.Join(dir, "trace")),
		"second run without filesystem changes must execute zero recipes")
}

func TestRunDefaultTarget(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: all
    recipe: 'echo built > default.txt'
`)

	require.NoError(t, newApp(t).Run(context.Background(), nil, opts))
	assert.Equal(t, "built\n", readFile(t, filepath.Join(dir, "default.txt")))
}

func TestRunDedupIdenticalRecipes(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: pair
    prereqs: ['a.marker', 'b.marker']
  - target: '(a|b)\.marker'
    recipe: 'echo x >> count.txt'
`)

	require.NoError(t, newApp(t).Run(context.Background(), []string{"pair"}, opts))

	// Both marker targets expand to the byte-identical recipe, so they are
	// one unit of work and it runs exactly once.
	assert.Equal(t, "x\n", readFile(t, filepath.Join(dir, "count.txt")))
}

func TestRunFailureRestoresPriorOutput(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: out
    prereqs: [in]
    recipe: 'echo partial > out && exit 1'
`)
	writeFile(t, filepath.Join(dir, "in"), "input")
	writeFile(t, filepath.Join(dir, "out"), "prior bytes")
	touch(t, filepath.Join(dir, "out"), time.Now().Add(-time.Hour))

	err := newApp(t).Run(context.Background(), []string{"out"}, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecipeFailed)
	assert.Equal(t, "prior bytes", readFile(t, filepath.Join(dir, "out")))
}

func TestRunFailureWithoutPriorLeavesNothing(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: out
    recipe: 'echo partial > out && exit 1'
`)

	err := newApp(t).Run(context.Background(), []string{"out"}, opts)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out"))
}

func TestRunFailureHaltsLaterWaves(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: top
    prereqs: [bottom]
    recipe: 'echo top > top'
  - target: bottom
    recipe: 'exit 1'
`)

	err := newApp(t).Run(context.Background(), []string{"top"}, opts)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "top"))
}

func TestRunPhonyTargetAlwaysRuns(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: clean
    recipe: 'echo cleaned >> clean.log'
`)

	a := newApp(t)
	require.NoError(t, a.Run(context.Background(), []string{"clean"}, opts))
	require.NoError(t, a.Run(context.Background(), []string{"clean"}, opts))
	assert.Equal(t, "cleaned\ncleaned\n", readFile(t, filepath.Join(dir, "clean.log")))
}

func TestRunOrderOnlyPrerequisite(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: out
    prereqs: [in, stamp]
    recipe: 'cp in out'
  - target: stamp
    recipe: 'touch stamp'
    order_only: true
`)
	writeFile(t, filepath.Join(dir, "in"), "input")
	touch(t, filepath.Join(dir, "in"), time.Now().Add(-2*time.Hour))

	// The missing order-only prerequisite is created and out is built.
	a := newApp(t)
	require.NoError(t, a.Run(context.Background(), []string{"out"}, opts))
	assert.FileExists(t, filepath.Join(dir, "stamp"))
	assert.Equal(t, "input", readFile(t, filepath.Join(dir, "out")))

	// Touching the existing order-only prerequisite must not rebuild out.
	old := time.Now().Add(-time.Hour)
	touch(t, filepath.Join(dir, "out"), old)
	touch(t, filepath.Join(dir, "stamp"), time.Now())
	require.NoError(t, a.Run(context.Background(), []string{"out"}, opts))
	assert.Equal(t, old, mtime(t, filepath.Join(dir, "out")))
}

func TestRunDryRunExecutesNothing(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: out
    recipe: 'echo built > out'
`)
	opts.DryRun = true

	require.NoError(t, newApp(t).Run(context.Background(), []string{"out"}, opts))
	assert.NoFileExists(t, filepath.Join(dir, "out"))
}

func TestRunParallel(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: all
    prereqs: [a, b, c]
  - target: '(a|b|c)'
    recipe: 'echo {trgt} > {trgt}'
`)
	opts.Parallel = true
	opts.Jobs = 2

	require.NoError(t, newApp(t).Run(context.Background(), nil, opts))
	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name+"\n", readFile(t, filepath.Join(dir, name)))
	}
}

func TestRunVarOverrides(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
vars:
  MSG: hello
rules:
  - target: out
    recipe: 'echo {MSG} > out'
`)
	opts.Vars = map[string]string{"MSG": "goodbye"}

	require.NoError(t, newApp(t).Run(context.Background(), []string{"out"}, opts))
	assert.Equal(t, "goodbye\n", readFile(t, filepath.Join(dir, "out")))
}

func TestRunUnresolvableTarget(t *testing.T) {
	_, opts := workspace(t, `
version: 1
rules:
  - target: all
    prereqs: [missing-input]
    recipe: 'echo irrelevant'
`)

	err := newApp(t).Run(context.Background(), []string{"all"}, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRuleOrCycle)
}

func TestRunCyclicRules(t *testing.T) {
	_, opts := workspace(t, `
version: 1
rules:
  - target: a
    prereqs: [b]
    recipe: 'echo a'
  - target: b
    prereqs: [a]
    recipe: 'echo b'
`)

	// Rule consumption turns the cycle into a failed resolution.
	err := newApp(t).Run(context.Background(), []string{"a"}, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRuleOrCycle)
}

func TestRunWorkspaceLocked(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: out
    recipe: 'echo built > out'
`)

	release, err := fs.NewLocker().TryLock(dir)
	require.NoError(t, err)
	defer func() { _ = release() }()

	err = newApp(t).Run(context.Background(), []string{"out"}, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWorkspaceLocked)
	assert.NoFileExists(t, filepath.Join(dir, "out"))
}

func TestGraphExport(t *testing.T) {
	dir, opts := workspace(t, `
version: 1
rules:
  - target: all
    prereqs: ['x.out']
  - target: 'x\.out'
    prereqs: ['x.in']
    recipe: 'cp x.in x.out'
`)
	writeFile(t, filepath.Join(dir, "x.in"), "source")

	var buf bytes.Buffer
	require.NoError(t, newApp(t).Graph("all", opts, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph mk {"))
	assert.Contains(t, out, `label="all"`)
	assert.Contains(t, out, `label="x.out"`)
	assert.Contains(t, out, `label="x.in"`)
	assert.Contains(t, out, "subgraph cluster_0")
	assert.NoFileExists(t, filepath.Join(dir, "x.out"), "graph export must not execute recipes")
}
