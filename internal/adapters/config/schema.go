package config

import (
	"maps"

	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
)

// supportedVersion is the only rule-file schema version this build reads.
const supportedVersion = 1

// mkfile is the DTO for the top level of a rule file. Rule order is
// declaration order and must survive parsing: resolution gives the first
// matching rule priority.
type mkfile struct {
	Version int               `yaml:"version"`
	Vars    map[string]string `yaml:"vars"`
	Rules   []ruleDTO         `yaml:"rules"`
}

// ruleDTO is the DTO for one rule declaration.
type ruleDTO struct {
	Target    string            `yaml:"target"`
	Prereqs   []string          `yaml:"prereqs"`
	Recipe    string            `yaml:"recipe"`
	OrderOnly bool              `yaml:"order_only"`
	Vars      map[string]string `yaml:"vars"`
}

// toRuleSet converts the DTO into domain rules, layering rule-local vars over
// the file's globals.
func (f *mkfile) toRuleSet() (*domain.RuleSet, error) {
	if f.Version != supportedVersion {
		return nil, zerr.With(domain.ErrUnsupportedVersion, "version", f.Version)
	}
	if len(f.Rules) == 0 {
		return nil, zerr.With(domain.ErrInvalidConfig, "reason", "no rules declared")
	}

	rules := make([]*domain.Rule, 0, len(f.Rules))
	for i, dto := range f.Rules {
		if dto.Target == "" {
			return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", "rule without target pattern"), "index", i)
		}

		vars := make(map[string]string, len(f.Vars)+len(dto.Vars))
		maps.Copy(vars, f.Vars)
		maps.Copy(vars, dto.Vars)

		r, err := domain.NewRule(dto.Target, dto.Prereqs, dto.Recipe, dto.OrderOnly, vars)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		rules = append(rules, r)
	}

	return domain.NewRuleSet(rules), nil
}
