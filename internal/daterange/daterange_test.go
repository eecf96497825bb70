package daterange

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	r, err := Parse("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.From == nil || r.To == nil {
		t.Fatalf("expected both bounds set: %+v", r)
	}
	if got := r.String(); got != "2024-01-01 → 2024-01-31" {
		t.Fatalf("String() = %q", got)
	}

	open, err := Parse("", "2024-02-01")
	if err != nil {
		t.Fatalf("Parse open range: %v", err)
	}
	if open.From != nil || open.To == nil {
		t.Fatalf("expected only To set: %+v", open)
	}
	if got := open.String(); got != "… → 2024-02-01" {
		t.Fatalf("String() = %q", got)
	}

	if _, err := Parse("01/02/2024", ""); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestStateRangesAreIndependent(t *testing.T) {
	var s State
	if !s.Primary.IsZero() || !s.Comparison.IsZero() {
		t.Fatalf("new state should have unset ranges")
	}
	// A comparison window longer than, and reversed relative to, the primary is accepted.
	p, _ := Parse("2024-03-01", "2024-03-07")
	c, _ := Parse("2024-02-28", "2023-01-01")
	s.SetPrimary(p)
	s.SetComparison(c)
	if s.Primary.String() != "2024-03-01 → 2024-03-07" || s.Comparison.String() != "2024-02-28 → 2023-01-01" {
		t.Fatalf("unexpected state: %s / %s", s.Primary, s.Comparison)
	}
	s.SetPrimary(Range{})
	if !s.Primary.IsZero() || s.Comparison.IsZero() {
		t.Fatalf("clearing primary must not touch comparison")
	}
}
