package domain_test

import (
	"testing"

	"go.trai.ch/mk/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	s1 := "x.out"
	s2 := "x.out"

	is1 := domain.NewInternedString(s1)
	is2 := domain.NewInternedString(s2)

	// Identical strings intern to comparable equal values
	if is1 != is2 {
		t.Errorf("Expected interned values to be equal for identical strings, got %v and %v", is1, is2)
	}

	if is1.String() != s1 {
		t.Errorf("Expected String() to return %q, got %q", s1, is1.String())
	}
}

func TestInternedStringZeroValue(t *testing.T) {
	var zero domain.InternedString
	if zero.String() != "" {
		t.Errorf("Expected zero value to render as empty string, got %q", zero.String())
	}
}
