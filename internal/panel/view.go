package panel

import (
	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/KaramelBytes/dataconfig-cli/internal/daterange"
)

// SingleSelect is the view model of a single-choice selector. Labels and
// Values are parallel; Selected is "" when nothing is chosen.
type SingleSelect struct {
	ID       string
	Title    string
	Labels   []string
	Values   []string
	Selected string
}

// MultiSelect is the view model of a multi-choice selector.
type MultiSelect struct {
	ID       string
	Title    string
	Labels   []string
	Values   []string
	Selected []string
}

// DatePicker is the view model of the two-window date range picker.
type DatePicker struct {
	Title   string
	Range   daterange.Range
	Compare daterange.Range
}

// View is everything the panel renders, derived from its state on demand.
type View struct {
	DateColumn             SingleSelect
	DateRanges             DatePicker
	Metric                 SingleSelect
	MetricAggregations     []SingleSelect
	SupportingMetrics      MultiSelect
	SupportingAggregations []SingleSelect
	Dimensions             MultiSelect
}

// View derives the widget view models from the current state.
func (p *Panel) View() View {
	c := p.classifier

	dateCol, _ := c.DateColumn()
	candidates := p.DateCandidates()

	metrics := c.Columns(columns.RoleMetric)
	supporting := c.Columns(columns.RoleSupportingMetric)
	metricSel := ""
	if len(metrics) > 0 {
		metricSel = metrics[0]
	}

	notMetric := p.headerExcluding(columns.RoleMetric)
	notAnyMetric := p.headerExcluding(columns.RoleMetric, columns.RoleSupportingMetric)

	return View{
		DateColumn: SingleSelect{
			ID:       WidgetDateColumn,
			Title:    "Select a date column",
			Labels:   candidates,
			Values:   candidates,
			Selected: dateCol,
		},
		DateRanges: DatePicker{
			Title:   "Select date ranges",
			Range:   p.ranges.Primary,
			Compare: p.ranges.Comparison,
		},
		Metric: SingleSelect{
			ID:       WidgetMetric,
			Title:    "Select metric columns",
			Labels:   p.Header(),
			Values:   p.Header(),
			Selected: metricSel,
		},
		MetricAggregations: p.aggregationSelectors(metrics),
		SupportingMetrics: MultiSelect{
			ID:       WidgetSupportingMetrics,
			Title:    "Select supporting metric columns (optional)",
			Labels:   notMetric,
			Values:   notMetric,
			Selected: nonNil(supporting),
		},
		SupportingAggregations: p.aggregationSelectors(supporting),
		Dimensions: MultiSelect{
			ID:       WidgetDimensions,
			Title:    "Select dimension columns",
			Labels:   notAnyMetric,
			Values:   notAnyMetric,
			Selected: nonNil(c.Columns(columns.RoleDimension)),
		},
	}
}

func (p *Panel) aggregationSelectors(cols []string) []SingleSelect {
	labels := make([]string, len(columns.Aggregations))
	values := make([]string, len(columns.Aggregations))
	for i, a := range columns.Aggregations {
		labels[i] = a.Label
		values[i] = string(a.Value)
	}
	out := make([]SingleSelect, 0, len(cols))
	for _, col := range cols {
		a, _ := p.classifier.Lookup(col)
		out = append(out, SingleSelect{
			ID:       WidgetAggregation + ":" + col,
			Title:    col,
			Labels:   labels,
			Values:   values,
			Selected: string(a.Aggregation),
		})
	}
	return out
}

// headerExcluding returns the header minus columns holding any of roles.
func (p *Panel) headerExcluding(roles ...columns.Role) []string {
	out := make([]string, 0, len(p.header))
	for _, h := range p.header {
		a, ok := p.classifier.Lookup(h)
		if ok && containsRole(roles, a.Role) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func containsRole(roles []columns.Role, r columns.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
