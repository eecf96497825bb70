package panel

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const none = "-"

func viewTable(v View) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Widget", "Title", "Options", "Selected"})

	t.AppendRow(table.Row{v.DateColumn.ID, v.DateColumn.Title, joinOr(v.DateColumn.Labels), orNone(v.DateColumn.Selected)})
	t.AppendRow(table.Row{"date-range", v.DateRanges.Title, "from, to", v.DateRanges.Range.String()})
	t.AppendRow(table.Row{"compare-range", v.DateRanges.Title, "from, to", v.DateRanges.Compare.String()})
	t.AppendRow(table.Row{v.Metric.ID, v.Metric.Title, joinOr(v.Metric.Labels), orNone(v.Metric.Selected)})
	for _, a := range v.MetricAggregations {
		t.AppendRow(aggregationRow(a))
	}
	t.AppendRow(table.Row{v.SupportingMetrics.ID, v.SupportingMetrics.Title, joinOr(v.SupportingMetrics.Labels), joinOr(v.SupportingMetrics.Selected)})
	for _, a := range v.SupportingAggregations {
		t.AppendRow(aggregationRow(a))
	}
	t.AppendRow(table.Row{v.Dimensions.ID, v.Dimensions.Title, joinOr(v.Dimensions.Labels), joinOr(v.Dimensions.Selected)})
	return t
}

func aggregationRow(s SingleSelect) table.Row {
	selected := s.Selected
	for i, val := range s.Values {
		if val == s.Selected && i < len(s.Labels) {
			selected = s.Labels[i]
		}
	}
	return table.Row{s.ID, "Aggregation for " + s.Title, strings.Join(s.Labels, " | "), orNone(selected)}
}

// RenderTable renders the panel as a terminal table.
func RenderTable(v View) string {
	t := viewTable(v)
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// RenderMarkdown renders the panel as a Markdown table.
func RenderMarkdown(v View) string {
	return viewTable(v).RenderMarkdown()
}

func joinOr(s []string) string {
	if len(s) == 0 {
		return none
	}
	return strings.Join(s, ", ")
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
