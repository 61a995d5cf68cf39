package config

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
)

// hclFile mirrors mkfile in HCL block syntax. gohcl keeps blocks in source
// order, so rule priority carries over unchanged.
type hclFile struct {
	Version int        `hcl:"version"`
	Vars    *cty.Value `hcl:"vars,optional"`
	Rules   []hclRule  `hcl:"rule,block"`
}

// hclRule is one `rule "<pattern>" { ... }` block.
type hclRule struct {
	Target    string     `hcl:"target,label"`
	Prereqs   []string   `hcl:"prereqs,optional"`
	Recipe    string     `hcl:"recipe,optional"`
	OrderOnly bool       `hcl:"order_only,optional"`
	Vars      *cty.Value `hcl:"vars,optional"`
}

func parseHCL(data []byte, filename string) (*domain.RuleSet, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", "malformed HCL"), "cause", diags.Error())
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", "invalid rule file schema"), "cause", diags.Error())
	}

	globals, err := stringMap(parsed.Vars)
	if err != nil {
		return nil, err
	}

	f := mkfile{
		Version: parsed.Version,
		Vars:    globals,
		Rules:   make([]ruleDTO, 0, len(parsed.Rules)),
	}
	for _, r := range parsed.Rules {
		vars, err := stringMap(r.Vars)
		if err != nil {
			return nil, zerr.With(err, "rule", r.Target)
		}
		f.Rules = append(f.Rules, ruleDTO{
			Target:    r.Target,
			Prereqs:   r.Prereqs,
			Recipe:    r.Recipe,
			OrderOnly: r.OrderOnly,
			Vars:      vars,
		})
	}
	return f.toRuleSet()
}

// stringMap converts an HCL object value like `{ CC = "cc" }` into a plain
// string map. Non-string values are converted where cty allows it, so
// numbers work as variable values too.
func stringMap(v *cty.Value) (map[string]string, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(*v, cty.Map(cty.String))
	if err != nil {
		return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", "vars must be a map of strings"), "cause", err.Error())
	}
	if converted.LengthInt() == 0 {
		return nil, nil
	}
	out := make(map[string]string, converted.LengthInt())
	for k, val := range converted.AsValueMap() {
		out[k] = val.AsString()
	}
	return out, nil
}
