package domain

import "go.trai.ch/zerr"

var (
	// ErrNoRuleOrCycle is returned when no rule matches a target and no file
	// exists at that path. The two causes are indistinguishable by design:
	// rule consumption turns dependency cycles into failed resolutions.
	ErrNoRuleOrCycle = zerr.New("no rule defined for target, or the dependency graph contains a cycle")

	// ErrRecipeFailed is returned when a recipe's shell invocation exits nonzero.
	ErrRecipeFailed = zerr.New("recipe execution failed")

	// ErrPatternMismatch is returned when a rule is instantiated against a target its pattern does not match.
	ErrPatternMismatch = zerr.New("rule pattern does not match target")

	// ErrInvalidPattern is returned when a rule's target pattern does not compile as a regular expression.
	ErrInvalidPattern = zerr.New("invalid target pattern")

	// ErrInvalidPlaceholder is returned when a template references an unknown
	// name, an out-of-range capture group, or contains unbalanced braces.
	ErrInvalidPlaceholder = zerr.New("invalid template placeholder")

	// ErrInvalidConfig is returned when a rule file is malformed.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigNotFound is returned when no rule file is found in the working directory or any of its parents.
	ErrConfigNotFound = zerr.New("no configuration file found")

	// ErrUnsupportedVersion is returned when a rule file declares a config version this build does not understand.
	ErrUnsupportedVersion = zerr.New("unsupported configuration version")

	// ErrWorkspaceLocked is returned when another process holds the workspace lock.
	ErrWorkspaceLocked = zerr.New("workspace is locked by another process")

	// ErrCycleDetected is returned when graph validation finds a dependency cycle.
	ErrCycleDetected = zerr.New("cycle detected")
)
