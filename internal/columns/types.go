package columns

import (
	"fmt"
	"strings"
)

// Role is the part a column plays in the upload configuration.
type Role string

const (
	RoleDate             Role = "date"
	RoleMetric           Role = "metric"
	RoleSupportingMetric Role = "supporting_metric"
	RoleDimension        Role = "dimension"
)

// Roles lists every role in display order.
var Roles = []Role{RoleDate, RoleMetric, RoleSupportingMetric, RoleDimension}

func (r Role) Valid() bool {
	for _, x := range Roles {
		if r == x {
			return true
		}
	}
	return false
}

// IsMetricLike reports whether columns holding r carry an aggregation option.
func (r Role) IsMetricLike() bool {
	return r == RoleMetric || r == RoleSupportingMetric
}

// ParseRole accepts the wire form ("supporting_metric") and the CLI form ("supporting-metric").
func ParseRole(s string) (Role, error) {
	r := Role(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !r.Valid() {
		names := make([]string, len(Roles))
		for i, x := range Roles {
			names[i] = string(x)
		}
		return "", fmt.Errorf("%w: %q (use %s)", ErrUnknownRole, s, strings.Join(names, "|"))
	}
	return r, nil
}

// Aggregation is how a metric-like column is rolled up downstream.
// The zero value means no aggregation (date and dimension columns).
type Aggregation string

const (
	AggregationNone     Aggregation = ""
	AggregationSum      Aggregation = "sum"
	AggregationCount    Aggregation = "count"
	AggregationDistinct Aggregation = "distinct"
)

// DefaultAggregation is assigned to every column entering a metric-like role.
const DefaultAggregation = AggregationSum

// Aggregations lists the selectable options with their display labels, in display order.
var Aggregations = []struct {
	Value Aggregation
	Label string
}{
	{AggregationSum, "Sum"},
	{AggregationCount, "Count"},
	{AggregationDistinct, "Distinct Count"},
}

func (a Aggregation) Valid() bool {
	switch a {
	case AggregationSum, AggregationCount, AggregationDistinct:
		return true
	}
	return false
}

func ParseAggregation(s string) (Aggregation, error) {
	a := Aggregation(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q (use sum|count|distinct)", ErrUnknownAggregation, s)
	}
	return a, nil
}

// Assignment is the classifier's record for one column.
type Assignment struct {
	Role        Role        `json:"type" yaml:"type"`
	Aggregation Aggregation `json:"aggregation_option,omitempty" yaml:"aggregation_option,omitempty"`
}

func (a Assignment) String() string {
	if a.Aggregation == AggregationNone {
		return fmt.Sprintf("{%s, null}", a.Role)
	}
	return fmt.Sprintf("{%s, %s}", a.Role, a.Aggregation)
}

// Entry is an Assignment keyed by its column, used for ordered snapshots.
type Entry struct {
	Column      string      `json:"column" yaml:"column"`
	Role        Role        `json:"type" yaml:"type"`
	Aggregation Aggregation `json:"aggregation_option,omitempty" yaml:"aggregation_option,omitempty"`
}

func (e Entry) Assignment() Assignment {
	return Assignment{Role: e.Role, Aggregation: e.Aggregation}
}
