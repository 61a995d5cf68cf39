package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Kind discriminates the requirement variants.
type Kind int

const (
	// KindFile is a plain input file no rule produces. Its timestamp comes
	// from the filesystem, and a missing file is a hard resolution error.
	KindFile Kind = iota

	// KindTask is a target produced by running a recipe.
	KindTask

	// KindAggregate is a named fan-out header with prerequisites but no
	// recipe and no output of its own.
	KindAggregate
)

// String returns a short label for logs and graph rendering.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindTask:
		return "task"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Requirement is a node of the dependency graph: something that must exist or
// be brought up to date before its dependents may run.
//
// Identity is deliberately not the target name. Tasks are identified by the
// content of their fully resolved recipe, so two target names that expand to
// byte-identical recipes collapse into a single node and the recipe runs once.
// The flip side is that genuinely different targets sharing a recipe string
// are silently merged as well; callers who need both must make the recipes
// differ, for example by mentioning {trgt}.
type Requirement struct {
	// Kind selects the variant.
	Kind Kind

	// Target is the display identifier: a file path for files and tasks,
	// a bare name for aggregates.
	Target string

	// Recipe is the fully resolved shell command. Empty unless Kind is
	// KindTask.
	Recipe string

	// OrderOnly marks outputs whose mere existence satisfies dependents.
	// When the output exists its effective timestamp is the oldest possible
	// value, so touching it never forces dependents to rebuild.
	OrderOnly bool

	key InternedString
}

// NewFileRequirement returns the requirement for a plain input file.
func NewFileRequirement(target string) *Requirement {
	return &Requirement{
		Kind:   KindFile,
		Target: target,
		key:    NewInternedString("target:" + target),
	}
}

// NewTaskRequirement returns the requirement for a recipe-produced target.
func NewTaskRequirement(target, recipe string, orderOnly bool) *Requirement {
	return &Requirement{
		Kind:      KindTask,
		Target:    target,
		Recipe:    recipe,
		OrderOnly: orderOnly,
		key:       NewInternedString(fmt.Sprintf("task:%016x", xxhash.Sum64String(recipe))),
	}
}

// NewAggregateRequirement returns the requirement for a recipe-less header.
func NewAggregateRequirement(target string, orderOnly bool) *Requirement {
	return &Requirement{
		Kind:      KindAggregate,
		Target:    target,
		OrderOnly: orderOnly,
		key:       NewInternedString("target:" + target),
	}
}

// Key returns the interned identity of the requirement.
func (r *Requirement) Key() InternedString {
	return r.key
}

// HasRecipe reports whether running the requirement executes a shell command.
func (r *Requirement) HasRecipe() bool {
	return r.Recipe != ""
}
