// Package app implements the application layer: one Run call is one full
// load, resolve, plan, execute cycle per requested target.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/adapters/dot"
	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
	"go.trai.ch/mk/internal/engine/planner"
	"go.trai.ch/mk/internal/engine/resolver"
	"go.trai.ch/mk/internal/engine/scheduler"
)

// DefaultTarget is built when no target is named on the command line.
const DefaultTarget = "all"

// RunOptions control one invocation.
type RunOptions struct {
	// DryRun emits recipe text without executing anything.
	DryRun bool
	// Parallel runs independent recipes of a wave concurrently.
	Parallel bool
	// Jobs caps parallelism; zero or less means NumCPU.
	Jobs int
	// Vars overrides named variables in every rule. Overrides win over
	// rule-local values and file globals.
	Vars map[string]string
	// ConfigFile names the rule file explicitly, skipping discovery.
	ConfigFile string
}

// App wires the engine together behind the two supported entry points,
// building targets and exporting the graph.
type App struct {
	loader    ports.ConfigLoader
	locker    ports.Locker
	resolver  *resolver.Resolver
	planner   *planner.Planner
	scheduler *scheduler.Scheduler
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	locker ports.Locker,
	res *resolver.Resolver,
	plan *planner.Planner,
	sched *scheduler.Scheduler,
	logger ports.Logger,
) *App {
	return &App{
		loader:    loader,
		locker:    locker,
		resolver:  res,
		planner:   plan,
		scheduler: sched,
		logger:    logger,
	}
}

// Run builds the requested targets in argument order, one resolve/plan/
// execute cycle each. With no targets the default target is built. The
// workspace lock is held for the whole invocation so concurrent runs cannot
// interleave stash traffic on the same tree.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) error {
	rules, dir, err := a.load(opts)
	if err != nil {
		return err
	}

	leave, err := a.enter(dir)
	if err != nil {
		return err
	}
	defer leave()

	release, err := a.locker.TryLock(dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to release workspace lock: %v", err))
		}
	}()

	if len(targets) == 0 {
		targets = []string{DefaultTarget}
	}

	for _, target := range targets {
		if err := a.build(ctx, target, rules, opts); err != nil {
			return err
		}
	}
	return nil
}

// Graph resolves and plans target, then writes the graph with its wave
// clusters in DOT format. Nothing executes and no lock is taken.
func (a *App) Graph(target string, opts RunOptions, w io.Writer) error {
	rules, dir, err := a.load(opts)
	if err != nil {
		return err
	}

	leave, err := a.enter(dir)
	if err != nil {
		return err
	}
	defer leave()

	if target == "" {
		target = DefaultTarget
	}

	g, err := a.resolve(target, rules)
	if err != nil {
		return err
	}
	return dot.Export(w, g, a.planner.Plan(g))
}

func (a *App) load(opts RunOptions) (*domain.RuleSet, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to determine working directory")
	}

	rules, dir, err := a.loader.Load(cwd, opts.ConfigFile)
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to load configuration")
	}

	rules, err = rules.WithVars(opts.Vars)
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to apply variable overrides")
	}
	return rules, dir, nil
}

// enter switches to the rule file's directory so target paths and recipes
// resolve relative to it regardless of where the tool was invoked.
func (a *App) enter(dir string) (func(), error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}
	if err := os.Chdir(dir); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to enter workspace"), "dir", dir)
	}
	return func() {
		if err := os.Chdir(prev); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to restore working directory: %v", err))
		}
	}, nil
}

func (a *App) build(ctx context.Context, target string, rules *domain.RuleSet, opts RunOptions) error {
	g, err := a.resolve(target, rules)
	if err != nil {
		return err
	}

	plan := a.planner.Plan(g)
	if plan.IsEmpty() {
		a.logger.Info(fmt.Sprintf("%q is up to date", target))
		return nil
	}
	a.logger.Debug(fmt.Sprintf("planned %d unit(s) in %d wave(s) for %q", plan.Units(), len(plan.Waves), target))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	if err := a.scheduler.Run(ctx, plan, scheduler.Options{
		DryRun:   opts.DryRun,
		Parallel: opts.Parallel,
		Jobs:     jobs,
	}); err != nil {
		return zerr.With(zerr.Wrap(err, "build failed"), "target", target)
	}
	return nil
}

func (a *App) resolve(target string, rules *domain.RuleSet) (*domain.Graph, error) {
	g, err := a.resolver.Resolve(target, rules)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve target"), "target", target)
	}
	if err := g.Validate(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "dependency graph is invalid"), "target", target)
	}
	return g, nil
}
