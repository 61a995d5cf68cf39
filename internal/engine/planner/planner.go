// Package planner derives wave-ordered execution plans from dependency
// graphs using modification-time staleness.
package planner

import (
	"fmt"

	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
)

// Planner computes which requirements must run, grouped into waves that
// preserve dependency order: every requirement lands in a strictly earlier
// wave than all of its dependents.
type Planner struct {
	fs     ports.FS
	logger ports.Logger
}

// NewPlanner creates a new Planner.
func NewPlanner(fs ports.FS, logger ports.Logger) *Planner {
	return &Planner{
		fs:     fs,
		logger: logger,
	}
}

// planResult is the memoized outcome for one node: its wave list in
// execution order, own wave last, and the effective timestamp dependents
// compare against. A scheduled node always reports the undefined timestamp,
// so staleness propagates to everything above it.
type planResult struct {
	waves []domain.Wave
	ts    domain.Timestamp
}

// Plan computes the execution plan for the graph's root. The returned waves
// run in slice order. Waves may be empty; a fully up-to-date root yields a
// plan with no work at all.
func (p *Planner) Plan(g *domain.Graph) *domain.Plan {
	root := g.Root()
	if root == nil {
		return &domain.Plan{}
	}
	memo := make(map[domain.InternedString]planResult, g.Len())
	res := p.plan(root, g, memo)
	return &domain.Plan{Waves: res.waves}
}

func (p *Planner) plan(req *domain.Requirement, g *domain.Graph, memo map[domain.InternedString]planResult) planResult {
	if res, ok := memo[req.Key()]; ok {
		return res
	}

	var res planResult
	if preqs := g.Prerequisites(req.Key()); len(preqs) == 0 {
		res = p.planLeaf(req)
	} else {
		res = p.planInner(req, preqs, g, memo)
	}

	memo[req.Key()] = res
	return res
}

// planLeaf handles requirements with no prerequisites. Files and bare
// aggregates contribute no work and report their own timestamp. A task whose
// output already exists is up to date; one without an output must run, which
// covers phony targets like clean that never produce a file.
func (p *Planner) planLeaf(req *domain.Requirement) planResult {
	own := p.fs.Timestamp(req.Target)

	if !req.HasRecipe() {
		return planResult{waves: []domain.Wave{{}}, ts: own}
	}
	if !own.IsUndefined() {
		p.logger.Debug(fmt.Sprintf("%q is up to date", req.Target))
		return planResult{waves: []domain.Wave{{}}, ts: own}
	}

	p.logger.Debug(fmt.Sprintf("scheduling %q, no output present", req.Target))
	return planResult{waves: []domain.Wave{{req}}, ts: domain.UndefinedTimestamp()}
}

func (p *Planner) planInner(req *domain.Requirement, preqs []*domain.Requirement, g *domain.Graph, memo map[domain.InternedString]planResult) planResult {
	latest := domain.OldestTimestamp()
	lists := make([][]domain.Wave, 0, len(preqs))

	for _, preq := range preqs {
		sub := p.plan(preq, g, memo)
		lists = append(lists, sub.waves)

		ts := sub.ts
		// An order-only prerequisite that is present and not scheduled
		// satisfies the dependency regardless of how new it is. When it is
		// missing or scheduled it stays undefined, so the dependent rebuilds
		// and the prerequisite's own waves survive the merge below.
		if preq.OrderOnly && !ts.IsUndefined() {
			ts = domain.OldestTimestamp()
		}
		latest = latest.Max(ts)
	}

	merged := mergeWaveLists(lists)
	own := p.fs.Timestamp(req.Target)

	// Newer-or-equal forces a rebuild: equal timestamps count as stale to
	// stay conservative about mtime clock precision.
	if own.IsUndefined() || !latest.Before(own) {
		p.logger.Debug(fmt.Sprintf("scheduling %q, prerequisites are newer (latest %s, own %s)", req.Target, latest, own))
		return planResult{
			waves: append(merged, domain.Wave{req}),
			ts:    domain.UndefinedTimestamp(),
		}
	}

	// Up to date. Every prerequisite reported a defined timestamp, which
	// means none of them scheduled work, so the merged waves are all empty
	// and dropping them loses nothing.
	p.logger.Debug(fmt.Sprintf("%q is up to date", req.Target))
	return planResult{waves: []domain.Wave{{}}, ts: own}
}

// mergeWaveLists unions execution-ordered wave lists position by position,
// aligned at the execution front. A requirement reachable through several
// branches keeps its earliest position and is dropped everywhere else, which
// preserves "runs strictly before its dependents" because a dependency is
// never deeper than its dependent in any list it shares with it.
func mergeWaveLists(lists [][]domain.Wave) []domain.Wave {
	maxLen := 0
	for _, l := range lists {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}

	seen := make(map[domain.InternedString]struct{})
	merged := make([]domain.Wave, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		var wave domain.Wave
		for _, l := range lists {
			if i >= len(l) {
				continue
			}
			for _, req := range l[i] {
				if _, dup := seen[req.Key()]; dup {
					continue
				}
				seen[req.Key()] = struct{}{}
				wave = append(wave, req)
			}
		}
		merged = append(merged, wave)
	}
	return merged
}
