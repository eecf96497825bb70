package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the calendar-day format accepted on the command line and used in output.
const Layout = "2006-01-02"

// ErrInvalidDate indicates a bound that is not a calendar day in Layout.
var ErrInvalidDate = errors.New("invalid date")

// Range is a date window whose bounds may each be unset.
type Range struct {
	From *time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To   *time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

// Parse builds a Range from two bounds; an empty bound stays unset.
// The order of the bounds is not checked.
func Parse(from, to string) (Range, error) {
	var r Range
	var err error
	if r.From, err = parseBound(from); err != nil {
		return Range{}, fmt.Errorf("from: %w", err)
	}
	if r.To, err = parseBound(to); err != nil {
		return Range{}, fmt.Errorf("to: %w", err)
	}
	return r, nil
}

func parseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (use YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return &t, nil
}

func (r Range) IsZero() bool { return r.From == nil && r.To == nil }

func (r Range) String() string {
	if r.IsZero() {
		return "(unset)"
	}
	return bound(r.From) + " → " + bound(r.To)
}

func bound(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return t.Format(Layout)
}

// State holds the panel's primary and comparison windows. The two are
// independent: the comparison window is never checked against the primary.
type State struct {
	Primary    Range `json:"date_range" yaml:"date_range"`
	Comparison Range `json:"compare_range" yaml:"compare_range"`
}

func (s *State) SetPrimary(r Range)    { s.Primary = r }
func (s *State) SetComparison(r Range) { s.Comparison = r }
