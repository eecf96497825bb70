// Package panel composes the data-configuration panel of the upload wizard:
// it owns one column classifier and the two date ranges, derives the view
// model of every selector widget from them and routes widget changes back.
package panel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/KaramelBytes/dataconfig-cli/internal/daterange"
)

// Widget identifiers accepted by Dispatch.
const (
	WidgetDateColumn        = "date-column"
	WidgetMetric            = "metric"
	WidgetSupportingMetrics = "supporting-metrics"
	WidgetDimensions        = "dimensions"
	WidgetAggregation       = "aggregation"
)

// ErrUnknownWidget indicates a Dispatch call for a widget the panel does not render.
var ErrUnknownWidget = errors.New("unknown widget")

// Change describes one successful mutation, for observers.
type Change struct {
	Widget  string
	Values  []string
	Columns []columns.Entry
	Ranges  daterange.State
}

// Panel is the state holder behind the configuration panel. Create one per
// upload; it is not safe for concurrent use.
type Panel struct {
	header     []string
	rows       []map[string]string
	detector   columns.Detector
	classifier *columns.Classifier
	ranges     daterange.State
	observers  []func(Change)
}

// Option customizes a Panel.
type Option func(*Panel)

// WithDetector replaces the default date heuristic.
func WithDetector(d columns.Detector) Option {
	return func(p *Panel) { p.detector = d }
}

// WithClassifier starts the panel from an existing column mapping.
func WithClassifier(c *columns.Classifier) Option {
	return func(p *Panel) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithRanges starts the panel from existing date ranges.
func WithRanges(s daterange.State) Option {
	return func(p *Panel) { p.ranges = s }
}

// WithObserver registers fn to be called after every successful change.
func WithObserver(fn func(Change)) Option {
	return func(p *Panel) { p.observers = append(p.observers, fn) }
}

// New creates a panel over header and sample rows with every column unassigned.
func New(header []string, rows []map[string]string, opts ...Option) *Panel {
	p := &Panel{
		header:     append([]string(nil), header...),
		rows:       rows,
		detector:   columns.DefaultDetector(),
		classifier: columns.NewClassifier(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Panel) Header() []string { return append([]string(nil), p.header...) }

// Columns returns an ordered snapshot of the role mapping.
func (p *Panel) Columns() []columns.Entry { return p.classifier.Entries() }

func (p *Panel) Ranges() daterange.State { return p.ranges }

func (p *Panel) firstRow() map[string]string {
	if len(p.rows) == 0 {
		return nil
	}
	return p.rows[0]
}

// DateCandidates returns the columns offered by the date-column selector:
// the date-like columns of the first row, or the whole header if there are none.
func (p *Panel) DateCandidates() []string {
	if c := p.detector.Detect(p.header, p.firstRow()); len(c) > 0 {
		return c
	}
	return p.Header()
}

func (p *Panel) notify(widget string, values ...string) {
	if len(p.observers) == 0 {
		return
	}
	ch := Change{Widget: widget, Values: values, Columns: p.classifier.Entries(), Ranges: p.ranges}
	for _, fn := range p.observers {
		fn(ch)
	}
}

// SelectDateColumn handles the date-column selector.
func (p *Panel) SelectDateColumn(column string) error {
	if err := p.classifier.SetDateColumn(column); err != nil {
		return err
	}
	p.notify(WidgetDateColumn, column)
	return nil
}

// SelectMetric handles the single-choice metric selector; "" clears the metric role.
func (p *Panel) SelectMetric(column string) error {
	var selected []string
	if column != "" {
		selected = []string{column}
	}
	if err := p.classifier.SetMetrics(selected, columns.RoleMetric); err != nil {
		return err
	}
	p.notify(WidgetMetric, column)
	return nil
}

// SelectSupportingMetrics handles the supporting-metric multi selector.
func (p *Panel) SelectSupportingMetrics(selected []string) error {
	if err := p.classifier.SetMetrics(selected, columns.RoleSupportingMetric); err != nil {
		return err
	}
	p.notify(WidgetSupportingMetrics, selected...)
	return nil
}

// SelectDimensions handles the dimension multi selector.
func (p *Panel) SelectDimensions(selected []string) {
	p.classifier.SetDimensions(selected)
	p.notify(WidgetDimensions, selected...)
}

// SelectAggregation handles the per-metric aggregation selectors.
func (p *Panel) SelectAggregation(column string, opt columns.Aggregation) error {
	if err := p.classifier.SetAggregation(column, opt); err != nil {
		return err
	}
	p.notify(WidgetAggregation, column, string(opt))
	return nil
}

// SetDateRange handles the primary window of the date picker.
func (p *Panel) SetDateRange(r daterange.Range) {
	p.ranges.SetPrimary(r)
	p.notify("date-range", r.String())
}

// SetCompareRange handles the comparison window of the date picker.
func (p *Panel) SetCompareRange(r daterange.Range) {
	p.ranges.SetComparison(r)
	p.notify("compare-range", r.String())
}

// Dispatch routes a selector change by widget id. Aggregation widgets take
// the column and the option as values, or are addressed as "aggregation:<column>".
func (p *Panel) Dispatch(widget string, values ...string) error {
	if col, ok := strings.CutPrefix(widget, WidgetAggregation+":"); ok {
		widget = WidgetAggregation
		values = append([]string{col}, values...)
	}
	switch widget {
	case WidgetDateColumn:
		if len(values) != 1 {
			return fmt.Errorf("%s takes exactly one column, got %d", widget, len(values))
		}
		return p.SelectDateColumn(values[0])
	case WidgetMetric:
		if len(values) > 1 {
			return fmt.Errorf("%s takes at most one column, got %d", widget, len(values))
		}
		col := ""
		if len(values) == 1 {
			col = values[0]
		}
		return p.SelectMetric(col)
	case WidgetSupportingMetrics:
		return p.SelectSupportingMetrics(values)
	case WidgetDimensions:
		p.SelectDimensions(values)
		return nil
	case WidgetAggregation:
		if len(values) != 2 {
			return fmt.Errorf("%s takes a column and an option, got %d values", widget, len(values))
		}
		opt, err := columns.ParseAggregation(values[1])
		if err != nil {
			return err
		}
		return p.SelectAggregation(values[0], opt)
	}
	return fmt.Errorf("%w: %q", ErrUnknownWidget, widget)
}
