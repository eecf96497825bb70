package panel

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/KaramelBytes/dataconfig-cli/internal/daterange"
)

func salesPanel(opts ...Option) *Panel {
	header := []string{"date", "revenue", "cost", "region"}
	rows := []map[string]string{{"date": "2024-01-01", "revenue": "100", "cost": "40", "region": "north"}}
	return New(header, rows, opts...)
}

func TestDateCandidates(t *testing.T) {
	p := salesPanel()
	if got := p.DateCandidates(); !reflect.DeepEqual(got, []string{"date"}) {
		t.Fatalf("candidates = %v", got)
	}

	// no rows: nothing is date-like, so the whole header is offered
	empty := New([]string{"a", "b"}, nil)
	if got := empty.DateCandidates(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("fallback candidates = %v", got)
	}

	custom := salesPanel(WithDetector(columns.Detector{Threshold: 50}))
	if got := custom.DateCandidates(); !reflect.DeepEqual(got, []string{"date", "revenue"}) {
		t.Fatalf("custom threshold candidates = %v", got)
	}
}

func TestDateCandidatesWithLargeIDColumn(t *testing.T) {
	header := []string{"ordered_at", "user_id", "amount"}
	for _, ts := range []string{"12/31/2024 11:59:59 PM", "2024/01/15 08:30"} {
		p := New(header, []map[string]string{{"ordered_at": ts, "user_id": "1700000001", "amount": "12"}})
		if got := p.DateCandidates(); !reflect.DeepEqual(got, []string{"ordered_at", "user_id"}) {
			t.Errorf("candidates for %q = %v", ts, got)
		}
	}
}

func TestViewExclusions(t *testing.T) {
	p := salesPanel()
	if err := p.SelectMetric("revenue"); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectSupportingMetrics([]string{"cost"}); err != nil {
		t.Fatal(err)
	}
	p.SelectDimensions([]string{"region"})

	v := p.View()
	if v.Metric.Selected != "revenue" {
		t.Fatalf("metric selected = %q", v.Metric.Selected)
	}
	if !reflect.DeepEqual(v.Metric.Values, p.Header()) {
		t.Fatalf("metric options = %v", v.Metric.Values)
	}
	if want := []string{"date", "cost", "region"}; !reflect.DeepEqual(v.SupportingMetrics.Values, want) {
		t.Fatalf("supporting options = %v, want %v", v.SupportingMetrics.Values, want)
	}
	if want := []string{"date", "region"}; !reflect.DeepEqual(v.Dimensions.Values, want) {
		t.Fatalf("dimension options = %v, want %v", v.Dimensions.Values, want)
	}
	if !reflect.DeepEqual(v.Dimensions.Selected, []string{"region"}) {
		t.Fatalf("dimensions selected = %v", v.Dimensions.Selected)
	}
	if len(v.MetricAggregations) != 1 || v.MetricAggregations[0].ID != "aggregation:revenue" || v.MetricAggregations[0].Selected != "sum" {
		t.Fatalf("metric aggregations = %+v", v.MetricAggregations)
	}
	if len(v.SupportingAggregations) != 1 || v.SupportingAggregations[0].Title != "cost" {
		t.Fatalf("supporting aggregations = %+v", v.SupportingAggregations)
	}
	if want := []string{"Sum", "Count", "Distinct Count"}; !reflect.DeepEqual(v.MetricAggregations[0].Labels, want) {
		t.Fatalf("aggregation labels = %v", v.MetricAggregations[0].Labels)
	}
}

func TestViewEmptyPanel(t *testing.T) {
	v := salesPanel().View()
	if v.DateColumn.Selected != "" || v.Metric.Selected != "" {
		t.Fatalf("expected nothing selected, got %+v", v)
	}
	if v.SupportingMetrics.Selected == nil || len(v.SupportingMetrics.Selected) != 0 {
		t.Fatalf("supporting selected = %#v", v.SupportingMetrics.Selected)
	}
	if len(v.MetricAggregations) != 0 || len(v.SupportingAggregations) != 0 {
		t.Fatalf("unexpected aggregation widgets")
	}
}

func TestSelectMetricReplacesAndClears(t *testing.T) {
	p := salesPanel()
	if err := p.SelectMetric("revenue"); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectAggregation("revenue", columns.AggregationCount); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectMetric("cost"); err != nil {
		t.Fatal(err)
	}
	if got := p.classifier.Columns(columns.RoleMetric); !reflect.DeepEqual(got, []string{"cost"}) {
		t.Fatalf("metrics = %v", got)
	}
	if _, ok := p.classifier.Lookup("revenue"); ok {
		t.Fatalf("revenue should be unassigned")
	}
	if err := p.SelectMetric(""); err != nil {
		t.Fatal(err)
	}
	if p.classifier.Len() != 0 {
		t.Fatalf("expected empty mapping, got %v", p.classifier)
	}
}

func TestDispatch(t *testing.T) {
	p := salesPanel()
	steps := []struct {
		widget string
		values []string
	}{
		{WidgetDateColumn, []string{"date"}},
		{WidgetMetric, []string{"revenue"}},
		{WidgetSupportingMetrics, []string{"cost"}},
		{WidgetDimensions, []string{"region"}},
		{"aggregation:revenue", []string{"distinct"}},
		{WidgetAggregation, []string{"cost", "count"}},
	}
	for _, s := range steps {
		if err := p.Dispatch(s.widget, s.values...); err != nil {
			t.Fatalf("Dispatch(%s, %v): %v", s.widget, s.values, err)
		}
	}
	want := []columns.Entry{
		{Column: "date", Role: columns.RoleDate},
		{Column: "revenue", Role: columns.RoleMetric, Aggregation: columns.AggregationDistinct},
		{Column: "cost", Role: columns.RoleSupportingMetric, Aggregation: columns.AggregationCount},
		{Column: "region", Role: columns.RoleDimension},
	}
	if got := p.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %+v\nwant %+v", got, want)
	}
}

func TestDispatchErrors(t *testing.T) {
	p := salesPanel()
	if err := p.Dispatch("chart-type", "bar"); !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget, got %v", err)
	}
	if err := p.Dispatch(WidgetDateColumn); err == nil {
		t.Fatalf("expected arity error")
	}
	if err := p.Dispatch(WidgetMetric, "a", "b"); err == nil {
		t.Fatalf("expected arity error")
	}
	if err := p.Dispatch("aggregation:region", "bogus"); !errors.Is(err, columns.ErrUnknownAggregation) {
		t.Fatalf("expected ErrUnknownAggregation, got %v", err)
	}
	if err := p.Dispatch("aggregation:region", "sum"); !errors.Is(err, columns.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if p.classifier.Len() != 0 {
		t.Fatalf("failed dispatches must not change state, got %v", p.classifier)
	}
}

func TestObserver(t *testing.T) {
	var changes []Change
	p := salesPanel(WithObserver(func(c Change) { changes = append(changes, c) }))

	if err := p.SelectDateColumn("date"); err != nil {
		t.Fatal(err)
	}
	_ = p.SelectAggregation("region", columns.AggregationSum)
	p.SetDateRange(daterange.Range{})

	if len(changes) != 2 {
		t.Fatalf("changes = %d, want 2 (failed calls are not reported)", len(changes))
	}
	if changes[0].Widget != WidgetDateColumn || len(changes[0].Columns) != 1 {
		t.Fatalf("first change = %+v", changes[0])
	}
	if changes[1].Widget != "date-range" {
		t.Fatalf("second change = %+v", changes[1])
	}
}

func TestRangesAreIndependent(t *testing.T) {
	p := salesPanel()
	r, err := daterange.Parse("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	p.SetDateRange(r)
	c, err := daterange.Parse("2023-12-01", "")
	if err != nil {
		t.Fatal(err)
	}
	p.SetCompareRange(c)

	got := p.Ranges()
	if got.Primary.From == nil || !got.Primary.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("primary = %v", got.Primary)
	}
	if got.Comparison.To != nil {
		t.Fatalf("comparison to = %v", got.Comparison.To)
	}
	p.SetCompareRange(daterange.Range{})
	if p.Ranges().Primary.IsZero() {
		t.Fatalf("clearing the comparison must keep the primary range")
	}
}

func TestSelection(t *testing.T) {
	p := salesPanel()
	for _, step := range [][]string{
		{WidgetDateColumn, "date"},
		{WidgetMetric, "revenue"},
		{WidgetSupportingMetrics, "cost"},
		{WidgetDimensions, "region"},
	} {
		if err := p.Dispatch(step[0], step[1:]...); err != nil {
			t.Fatal(err)
		}
	}
	s := p.Selection()
	if s.DateColumn != "date" {
		t.Fatalf("date column = %q", s.DateColumn)
	}
	if want := []MetricSelection{{Column: "revenue", Aggregation: columns.AggregationSum}}; !reflect.DeepEqual(s.Metrics, want) {
		t.Fatalf("metrics = %+v", s.Metrics)
	}
	if len(s.SupportingMetrics) != 1 || s.SupportingMetrics[0].Column != "cost" {
		t.Fatalf("supporting = %+v", s.SupportingMetrics)
	}
	if !reflect.DeepEqual(s.Dimensions, []string{"region"}) {
		t.Fatalf("dimensions = %v", s.Dimensions)
	}

	empty := salesPanel().Selection()
	if empty.Metrics == nil || empty.Dimensions == nil || empty.DateColumn != "" {
		t.Fatalf("empty selection = %+v", empty)
	}
}

func TestRender(t *testing.T) {
	p := salesPanel()
	_ = p.SelectMetric("revenue")
	v := p.View()

	out := RenderTable(v)
	for _, want := range []string{"date-column", "Select metric columns", "aggregation:revenue", "Sum | Count | Distinct Count", "Sum"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	md := RenderMarkdown(v)
	if !strings.Contains(md, "| --- |") || !strings.Contains(md, "aggregation:revenue") {
		t.Errorf("markdown output unexpected:\n%s", md)
	}
}
