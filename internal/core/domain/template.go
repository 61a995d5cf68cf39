package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// expansion carries the values available to template placeholders at a given
// substitution site. groups is nil when no pattern match is in scope, which is
// the case for target patterns. preqs placeholders are gated on recipe because
// prerequisite lists are only fully resolved once a recipe is instantiated.
type expansion struct {
	vars   map[string]string
	groups []string
	target string
	preqs  []string
	recipe bool
}

// expandTemplate substitutes placeholders in tmpl. The dialect:
//
//	{N}        capture group N of the target pattern match, {0} is the whole match
//	{trgt}     the resolved target
//	{preqs}    all resolved prerequisites, space separated (recipes only)
//	{all_preqs} alias for {preqs}
//	{preqs[i]} prerequisite i, zero based (recipes only)
//	{NAME}     variable NAME from the rule's merged vars
//	{{ and }}  literal braces
func expandTemplate(tmpl string, ex expansion) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "unterminated placeholder"), "template", tmpl)
			}
			name := tmpl[i+1 : i+1+end]
			val, err := ex.lookup(name)
			if err != nil {
				return "", zerr.With(err, "template", tmpl)
			}
			b.WriteString(val)
			i += end + 2
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "unmatched '}'"), "template", tmpl)
		default:
			b.WriteByte(tmpl[i])
			i++
		}
	}
	return b.String(), nil
}

func (ex expansion) lookup(name string) (string, error) {
	if name == "" {
		return "", zerr.With(ErrInvalidPlaceholder, "reason", "empty placeholder")
	}
	if idx, ok := parseIndex(name); ok {
		if ex.groups == nil {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "capture groups are not available in target patterns"), "placeholder", name)
		}
		if idx >= len(ex.groups) {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "capture group out of range"), "placeholder", name)
		}
		return ex.groups[idx], nil
	}
	switch name {
	case "trgt":
		if ex.groups == nil {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "trgt is not available in target patterns"), "placeholder", name)
		}
		return ex.target, nil
	case "preqs", "all_preqs":
		if !ex.recipe {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "prerequisites are only available in recipes"), "placeholder", name)
		}
		return strings.Join(ex.preqs, " "), nil
	}
	if rest, ok := strings.CutPrefix(name, "preqs["); ok {
		if !ex.recipe {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "prerequisites are only available in recipes"), "placeholder", name)
		}
		idxStr, closed := strings.CutSuffix(rest, "]")
		idx, numeric := parseIndex(idxStr)
		if !closed || !numeric {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "malformed prerequisite index"), "placeholder", name)
		}
		if idx >= len(ex.preqs) {
			return "", zerr.With(zerr.With(ErrInvalidPlaceholder, "reason", "prerequisite index out of range"), "placeholder", name)
		}
		return ex.preqs[idx], nil
	}
	if v, ok := ex.vars[name]; ok {
		return v, nil
	}
	return "", zerr.With(ErrInvalidPlaceholder, "placeholder", name)
}

// parseIndex accepts only unsigned decimal integers, so names like "2x" or
// "-1" fall through to variable lookup and fail with a placeholder error.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
