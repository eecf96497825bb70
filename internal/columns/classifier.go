package columns

import (
	"fmt"
	"strings"
)

// mapping is an insertion-ordered column → Assignment map. Overwriting a key
// keeps its position; removing and re-inserting moves it to the end.
type mapping struct {
	order   []string
	entries map[string]Assignment
}

func newMapping() mapping {
	return mapping{entries: make(map[string]Assignment)}
}

func (m mapping) clone() mapping {
	out := mapping{
		order:   make([]string, len(m.order)),
		entries: make(map[string]Assignment, len(m.entries)),
	}
	copy(out.order, m.order)
	for k, v := range m.entries {
		out.entries[k] = v
	}
	return out
}

func (m *mapping) put(column string, a Assignment) {
	if _, ok := m.entries[column]; !ok {
		m.order = append(m.order, column)
	}
	m.entries[column] = a
}

func (m *mapping) remove(column string) {
	if _, ok := m.entries[column]; !ok {
		return
	}
	delete(m.entries, column)
	for i, c := range m.order {
		if c == column {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m mapping) withRole(role Role) []string {
	var out []string
	for _, c := range m.order {
		if m.entries[c].Role == role {
			out = append(out, c)
		}
	}
	return out
}

// Classifier owns the column → role mapping of one configuration panel.
// Every mutation builds a new mapping and swaps it in only on success, so a
// failed call leaves the previous state untouched. Not safe for concurrent use.
type Classifier struct {
	m mapping
}

// NewClassifier returns a classifier with every column unassigned.
func NewClassifier() *Classifier {
	return &Classifier{m: newMapping()}
}

// Restore rebuilds a classifier from a saved snapshot, rejecting snapshots
// that no sequence of operations could have produced.
func Restore(entries []Entry) (*Classifier, error) {
	m := newMapping()
	for _, e := range entries {
		role, err := ParseRole(string(e.Role))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", e.Column, err)
		}
		e.Role = role
		if _, dup := m.entries[e.Column]; dup {
			return nil, fmt.Errorf("column %q listed twice: %w", e.Column, ErrInvariantViolation)
		}
		switch {
		case e.Role.IsMetricLike() && !e.Aggregation.Valid():
			return nil, fmt.Errorf("column %q: %w: %q", e.Column, ErrUnknownAggregation, e.Aggregation)
		case !e.Role.IsMetricLike() && e.Aggregation != AggregationNone:
			return nil, fmt.Errorf("column %q: aggregation %q on %s column: %w", e.Column, e.Aggregation, e.Role, ErrInvalidState)
		}
		m.put(e.Column, e.Assignment())
	}
	if dates := m.withRole(RoleDate); len(dates) > 1 {
		return nil, &InvariantViolationError{Role: RoleDate, Columns: dates}
	}
	return &Classifier{m: m}, nil
}

// SetMetrics makes selected exactly the set of columns holding role, which
// must be RoleMetric or RoleSupportingMetric. Columns entering the role get
// DefaultAggregation; columns already in it keep their option. Columns with
// other roles are left alone.
func (c *Classifier) SetMetrics(selected []string, role Role) error {
	if !role.IsMetricLike() {
		return fmt.Errorf("%w: %q is not a metric role", ErrUnknownRole, role)
	}
	c.replaceRole(selected, role, DefaultAggregation)
	return nil
}

// SetDimensions makes selected exactly the set of dimension columns.
func (c *Classifier) SetDimensions(selected []string) {
	c.replaceRole(selected, RoleDimension, AggregationNone)
}

func (c *Classifier) replaceRole(selected []string, role Role, agg Aggregation) {
	next := c.m.clone()
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
		if cur, ok := next.entries[name]; ok && cur.Role == role {
			continue
		}
		next.put(name, Assignment{Role: role, Aggregation: agg})
	}
	for _, name := range c.m.order {
		if c.m.entries[name].Role == role && !want[name] {
			next.remove(name)
		}
	}
	c.m = next
}

// SetAggregation changes the aggregation option of a metric-like column.
// Any other column yields an *InvalidStateError.
func (c *Classifier) SetAggregation(column string, opt Aggregation) error {
	if !opt.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAggregation, opt)
	}
	cur, ok := c.m.entries[column]
	if !ok || !cur.Role.IsMetricLike() {
		return &InvalidStateError{Column: column, Role: cur.Role}
	}
	next := c.m.clone()
	cur.Aggregation = opt
	next.put(column, cur)
	c.m = next
	return nil
}

// SetDateColumn moves the date role to column.
func (c *Classifier) SetDateColumn(column string) error {
	prev := c.m.withRole(RoleDate)
	if len(prev) > 1 {
		return &InvariantViolationError{Role: RoleDate, Columns: prev}
	}
	next := c.m.clone()
	for _, p := range prev {
		next.remove(p)
	}
	next.put(column, Assignment{Role: RoleDate})
	c.m = next
	return nil
}

// DateColumn returns the column holding the date role, if any.
func (c *Classifier) DateColumn() (string, bool) {
	for _, col := range c.m.order {
		if c.m.entries[col].Role == RoleDate {
			return col, true
		}
	}
	return "", false
}

// Columns returns the columns holding role, in mapping order.
func (c *Classifier) Columns(role Role) []string {
	return c.m.withRole(role)
}

// Lookup returns the assignment of column; ok is false when it is unassigned.
func (c *Classifier) Lookup(column string) (Assignment, bool) {
	a, ok := c.m.entries[column]
	return a, ok
}

// Entries returns an ordered snapshot of the mapping.
func (c *Classifier) Entries() []Entry {
	out := make([]Entry, 0, len(c.m.order))
	for _, col := range c.m.order {
		a := c.m.entries[col]
		out = append(out, Entry{Column: col, Role: a.Role, Aggregation: a.Aggregation})
	}
	return out
}

func (c *Classifier) Len() int { return len(c.m.order) }

func (c *Classifier) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range c.m.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", col, c.m.entries[col])
	}
	b.WriteString("}")
	return b.String()
}
