package ports

import "go.trai.ch/mk/internal/core/domain"

// ConfigLoader defines the interface for loading the rule file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load locates and parses the rule file. When explicit is non-empty it
	// names the file to load; otherwise discovery starts in cwd and walks
	// up the directory tree. It returns the rule set in declaration order
	// together with the directory containing the file, which recipes run
	// relative to.
	Load(cwd string, explicit string) (*domain.RuleSet, string, error)
}
