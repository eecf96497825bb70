package columns

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidState marks an operation requested on a column whose current role does not allow it.
	ErrInvalidState = errors.New("invalid column state")
	// ErrInvariantViolation marks a mapping that breaks the single-date-column rule.
	ErrInvariantViolation = errors.New("column invariant violated")
	ErrUnknownRole        = errors.New("unknown column role")
	ErrUnknownAggregation = errors.New("unknown aggregation option")
)

// InvalidStateError indicates an aggregation change on a column that is not metric-like.
type InvalidStateError struct {
	Column string
	// Role is empty when the column is unassigned.
	Role Role
}

func (e *InvalidStateError) Error() string {
	role := string(e.Role)
	if role == "" {
		role = "unassigned"
	}
	return fmt.Sprintf("invalid aggregation option update on non-metric column %q (%s)", e.Column, role)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// InvariantViolationError indicates more than one column holding a single-valued role.
type InvariantViolationError struct {
	Role    Role
	Columns []string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("found %d %s columns: %s", len(e.Columns), e.Role, strings.Join(e.Columns, ", "))
}

func (e *InvariantViolationError) Is(target error) bool { return target == ErrInvariantViolation }
