package domain

import (
	"maps"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// Rule declares how to produce targets matching a pattern. The target pattern
// is a regular expression template: variables are expanded into it once at
// construction, then it is anchored and compiled so it only ever matches a
// whole target name. Prerequisite and recipe templates stay raw and are
// expanded per target at instantiation time.
type Rule struct {
	target    string
	prereqs   []string
	recipe    string
	orderOnly bool
	vars      map[string]string
	re        *regexp.Regexp
}

// NewRule builds a rule from raw templates. vars is the rule's merged
// variable environment, rule-local entries layered over globals. The recipe
// may be empty, which makes instantiated requirements aggregates.
func NewRule(target string, prereqs []string, recipe string, orderOnly bool, vars map[string]string) (*Rule, error) {
	expanded, err := expandTemplate(target, expansion{vars: vars})
	if err != nil {
		return nil, zerr.With(err, "rule", target)
	}
	re, err := regexp.Compile("^(?:" + expanded + ")$")
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.With(ErrInvalidPattern, "pattern", expanded), "rule", target), "cause", err.Error())
	}

	trimmed := make([]string, 0, len(prereqs))
	for _, p := range prereqs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		trimmed = append(trimmed, p)
	}

	return &Rule{
		target:    target,
		prereqs:   trimmed,
		recipe:    strings.TrimSpace(recipe),
		orderOnly: orderOnly,
		vars:      vars,
		re:        re,
	}, nil
}

// Target returns the raw target pattern template, for labels and errors.
func (r *Rule) Target() string {
	return r.target
}

// OrderOnly reports whether targets of this rule satisfy dependents by
// existence alone.
func (r *Rule) OrderOnly() bool {
	return r.orderOnly
}

// HasRecipe reports whether instantiating this rule yields a runnable task.
func (r *Rule) HasRecipe() bool {
	return r.recipe != ""
}

// Applies reports whether the rule's pattern matches the whole target name.
func (r *Rule) Applies(target string) bool {
	return r.re.MatchString(target)
}

// Bind matches target against the pattern and returns the capture groups,
// with the whole match at index 0.
func (r *Rule) Bind(target string) ([]string, bool) {
	m := r.re.FindStringSubmatch(target)
	if m == nil {
		return nil, false
	}
	return m, true
}

// Prerequisites resolves the prerequisite templates against a concrete
// target. Entries that expand to nothing are dropped.
func (r *Rule) Prerequisites(target string) ([]string, error) {
	groups, ok := r.Bind(target)
	if !ok {
		return nil, zerr.With(zerr.With(ErrPatternMismatch, "pattern", r.target), "target", target)
	}
	preqs := make([]string, 0, len(r.prereqs))
	for _, tmpl := range r.prereqs {
		p, err := expandTemplate(tmpl, expansion{vars: r.vars, groups: groups, target: target})
		if err != nil {
			return nil, zerr.With(err, "rule", r.target)
		}
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		preqs = append(preqs, p)
	}
	return preqs, nil
}

// Instantiate resolves the rule against a concrete target and returns the
// produced requirement together with its resolved prerequisites. Rules
// without a recipe produce aggregates; rules with one produce tasks whose
// identity is the resolved recipe content.
func (r *Rule) Instantiate(target string) (*Requirement, []string, error) {
	preqs, err := r.Prerequisites(target)
	if err != nil {
		return nil, nil, err
	}
	if r.recipe == "" {
		return NewAggregateRequirement(target, r.orderOnly), preqs, nil
	}
	groups, _ := r.Bind(target)
	recipe, err := expandTemplate(r.recipe, expansion{
		vars:   r.vars,
		groups: groups,
		target: target,
		preqs:  preqs,
		recipe: true,
	})
	if err != nil {
		return nil, nil, zerr.With(err, "rule", r.target)
	}
	return NewTaskRequirement(target, strings.TrimSpace(recipe), r.orderOnly), preqs, nil
}

// RuleSet is an ordered collection of rules. Order is declaration order and
// it is significant: resolution always consumes the first matching rule.
type RuleSet struct {
	rules []*Rule
}

// NewRuleSet wraps rules in declaration order.
func NewRuleSet(rules []*Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Rules returns the rules in declaration order. Callers must not modify the
// returned slice.
func (rs *RuleSet) Rules() []*Rule {
	return rs.rules
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// WithVars returns a rule set with overrides layered over every rule's
// variables, recompiling target patterns that reference them. Overrides win
// over rule-local values, which in turn won over globals at load time. An
// empty overrides map returns the receiver unchanged.
func (rs *RuleSet) WithVars(overrides map[string]string) (*RuleSet, error) {
	if len(overrides) == 0 {
		return rs, nil
	}
	rules := make([]*Rule, len(rs.rules))
	for i, r := range rs.rules {
		merged := make(map[string]string, len(r.vars)+len(overrides))
		maps.Copy(merged, r.vars)
		maps.Copy(merged, overrides)
		nr, err := NewRule(r.target, r.prereqs, r.recipe, r.orderOnly, merged)
		if err != nil {
			return nil, err
		}
		rules[i] = nr
	}
	return &RuleSet{rules: rules}, nil
}
