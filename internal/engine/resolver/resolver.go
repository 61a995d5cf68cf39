// Package resolver constructs the dependency graph for a root target by
// matching targets against the rule set recursively.
package resolver

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
)

// Resolver turns a target name and a rule set into a dependency graph.
type Resolver struct {
	fs     ports.FS
	logger ports.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(fs ports.FS, logger ports.Logger) *Resolver {
	return &Resolver{
		fs:     fs,
		logger: logger,
	}
}

// Resolve builds the dependency graph rooted at target. Rules are matched in
// declaration order, first match wins. A matched rule is excluded from the
// candidate list of its own branch, so a pattern that would re-match one of
// its transitive prerequisites fails resolution instead of recursing forever.
// Unmatched targets fall back to plain files when they exist; otherwise
// resolution fails, and whether the cause is a missing rule or a dependency
// cycle is deliberately not distinguished.
func (r *Resolver) Resolve(target string, rules *domain.RuleSet) (*domain.Graph, error) {
	g := domain.NewGraph()
	target = strings.TrimSpace(target)
	if target == "" {
		// Nothing to build; the planner turns a rootless graph into an
		// empty plan.
		return g, nil
	}
	root, err := r.resolve(target, rules.Rules(), g)
	if err != nil {
		return nil, err
	}
	g.SetRoot(root.Key())
	return g, nil
}

func (r *Resolver) resolve(target string, candidates []*domain.Rule, g *domain.Graph) (*domain.Requirement, error) {
	idx := -1
	for i, rule := range candidates {
		if rule.Applies(target) {
			idx = i
			break
		}
	}

	if idx < 0 {
		if r.fs.Exists(target) {
			r.logger.Debug(fmt.Sprintf("no rule for %q, using file as-is", target))
			return g.Add(domain.NewFileRequirement(target)), nil
		}
		return nil, zerr.With(domain.ErrNoRuleOrCycle, "target", target)
	}

	rule := candidates[idx]
	req, preqs, err := rule.Instantiate(target)
	if err != nil {
		return nil, err
	}
	req = g.Add(req)
	r.logger.Debug(fmt.Sprintf("resolved %q via rule %q (%d prerequisite(s))", target, rule.Target(), len(preqs)))

	// The consumed rule stays available to sibling branches but not to this
	// branch's own descendants.
	remaining := make([]*domain.Rule, 0, len(candidates)-1)
	remaining = append(remaining, candidates[:idx]...)
	remaining = append(remaining, candidates[idx+1:]...)

	for _, p := range preqs {
		child, err := r.resolve(p, remaining, g)
		if err != nil {
			return nil, err
		}
		g.AddEdge(req.Key(), child.Key())
	}

	return req, nil
}
