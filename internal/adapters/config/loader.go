// Package config loads rule files. Two syntaxes are supported: mk.yaml
// (primary) and mk.hcl (block syntax). Both map onto the same rule schema
// and both preserve declaration order, which resolution depends on.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
)

// candidateFilenames in discovery probe order within each directory.
var candidateFilenames = []string{"mk.yaml", "mk.yml", "mk.hcl"}

// Loader implements ports.ConfigLoader.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load locates and parses the rule file. An explicit path wins; otherwise
// discovery starts in cwd and walks up towards the filesystem root. The
// returned directory is where the file lives, and recipes run relative to it.
func (l *Loader) Load(cwd string, explicit string) (*domain.RuleSet, string, error) {
	path, err := l.locate(cwd, explicit)
	if err != nil {
		return nil, "", err
	}

	rs, err := l.parse(path)
	if err != nil {
		return nil, "", zerr.With(err, "file", path)
	}

	dir := filepath.Dir(path)
	l.logger.Debug(fmt.Sprintf("loaded %d rule(s) from %s", rs.Len(), path))
	return rs, dir, nil
}

func (l *Loader) locate(cwd string, explicit string) (string, error) {
	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", zerr.With(zerr.With(domain.ErrConfigNotFound, "file", explicit), "cause", err.Error())
		}
		return path, nil
	}

	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}
	for {
		for _, name := range candidateFilenames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		dir = parent
	}
}

func (l *Loader) parse(path string) (*domain.RuleSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read rule file")
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".hcl":
		return parseHCL(data, path)
	default:
		return nil, zerr.With(domain.ErrInvalidConfig, "reason", "unsupported file extension")
	}
}

func parseYAML(data []byte) (*domain.RuleSet, error) {
	var f mkfile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", "malformed YAML"), "cause", err.Error())
	}
	return f.toRuleSet()
}
