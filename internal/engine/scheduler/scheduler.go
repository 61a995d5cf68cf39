// Package scheduler executes plans wave by wave.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
)

// UnitStatus represents the status of a scheduled requirement.
type UnitStatus string

const (
	// StatusPending indicates the unit is waiting for its wave.
	StatusPending UnitStatus = "Pending"
	// StatusRunning indicates the unit is currently executing.
	StatusRunning UnitStatus = "Running"
	// StatusCompleted indicates the unit finished successfully.
	StatusCompleted UnitStatus = "Completed"
	// StatusFailed indicates the unit's recipe failed.
	StatusFailed UnitStatus = "Failed"
	// StatusSkipped indicates the unit was not executed, as in a dry run.
	StatusSkipped UnitStatus = "Skipped"
)

// Options control how a plan is executed.
type Options struct {
	// DryRun emits recipe text without executing anything.
	DryRun bool
	// Parallel runs wave members concurrently instead of one at a time.
	Parallel bool
	// Jobs caps concurrent recipes within a wave when Parallel is set.
	// Zero or less means one unit per wave member.
	Jobs int
}

// Scheduler runs a plan's waves in order. A wave must finish completely
// before the next starts, and a failed wave halts the build with later waves
// never initiated. Siblings of a failed unit run to completion.
type Scheduler struct {
	executor ports.Executor
	fs       ports.FS
	tele     ports.Telemetry
	logger   ports.Logger

	mu     sync.RWMutex
	status map[domain.InternedString]UnitStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(executor ports.Executor, fs ports.FS, tele ports.Telemetry, logger ports.Logger) *Scheduler {
	return &Scheduler{
		executor: executor,
		fs:       fs,
		tele:     tele,
		logger:   logger,
		status:   make(map[domain.InternedString]UnitStatus),
	}
}

// Status returns the last observed status of a unit.
func (s *Scheduler) Status(key domain.InternedString) UnitStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[key]
}

func (s *Scheduler) setStatus(key domain.InternedString, status UnitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = status
}

// Run executes the plan. It returns the joined errors of the first wave that
// failed, or the context error if the run was canceled between waves.
func (s *Scheduler) Run(ctx context.Context, plan *domain.Plan, opts Options) error {
	s.initStatuses(plan)

	for i, wave := range plan.Waves {
		if len(wave) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Debug(fmt.Sprintf("running wave %d with %d unit(s)", i, len(wave)))
		if err := s.runWave(ctx, wave, opts); err != nil {
			return err
		}
	}

	return nil
}

func (s *Scheduler) initStatuses(plan *domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, wave := range plan.Waves {
		for _, req := range wave {
			s.status[req.Key()] = StatusPending
		}
	}
}

// runWave dispatches every member of the wave and joins them all before
// returning. Failures accumulate instead of canceling siblings, so partial
// outputs of unrelated units are never abandoned mid-write.
func (s *Scheduler) runWave(ctx context.Context, wave domain.Wave, opts Options) error {
	limit := 1
	if opts.Parallel {
		limit = opts.Jobs
		if limit <= 0 {
			limit = len(wave)
		}
	}

	var g errgroup.Group
	g.SetLimit(limit)

	var mu sync.Mutex
	var errs error
	for _, req := range wave {
		g.Go(func() error {
			if err := s.runUnit(ctx, req, opts); err != nil {
				mu.Lock()
				errs = errors.Join(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

func (s *Scheduler) runUnit(ctx context.Context, req *domain.Requirement, opts Options) error {
	if err := ctx.Err(); err != nil {
		s.setStatus(req.Key(), StatusSkipped)
		return err
	}

	ctx, vertex := s.tele.Record(ctx, req.Target)

	if !req.HasRecipe() {
		s.logger.Info(fmt.Sprintf("nothing left to do for %q", req.Target))
		vertex.Cached()
		s.setStatus(req.Key(), StatusCompleted)
		return nil
	}

	if opts.DryRun {
		s.logger.Info(req.Recipe)
		fmt.Fprintln(vertex.Stdout(), req.Recipe)
		vertex.Cached()
		s.setStatus(req.Key(), StatusSkipped)
		return nil
	}

	s.setStatus(req.Key(), StatusRunning)
	s.logger.Info(req.Recipe)

	err := s.execute(ctx, req, vertex)
	vertex.Complete(err)
	if err != nil {
		s.setStatus(req.Key(), StatusFailed)
		return err
	}

	s.setStatus(req.Key(), StatusCompleted)
	return nil
}

// execute runs the recipe under the stash protocol: any prior output is moved
// aside first, restored on failure, and discarded on success. A failed recipe
// therefore leaves either the prior bytes or nothing, never partial output.
func (s *Scheduler) execute(ctx context.Context, req *domain.Requirement, vertex ports.Vertex) error {
	stash, err := s.fs.Stash(req.Target)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stash prior output"), "target", req.Target)
	}

	if err := s.executor.Execute(ctx, req.Recipe, vertex.Stdout(), vertex.Stderr()); err != nil {
		if rerr := stash.Restore(); rerr != nil {
			s.logger.Warn(fmt.Sprintf("failed to restore prior output of %q: %v", req.Target, rerr))
		} else {
			s.logger.Info(fmt.Sprintf("rolled back %q after failed recipe", req.Target))
		}
		return zerr.With(zerr.Wrap(err, "recipe failed"), "target", req.Target)
	}

	if err := stash.Discard(); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to discard stashed output of %q: %v", req.Target, err))
	}
	return nil
}
