package panel

import (
	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/KaramelBytes/dataconfig-cli/internal/daterange"
)

// MetricSelection is a metric-like column with its aggregation option.
type MetricSelection struct {
	Column      string              `json:"column" yaml:"column"`
	Aggregation columns.Aggregation `json:"aggregation" yaml:"aggregation"`
}

// Selection is the finished configuration handed to whatever submits the upload.
type Selection struct {
	DateColumn        string            `json:"date_column,omitempty" yaml:"date_column,omitempty"`
	Metrics           []MetricSelection `json:"metrics" yaml:"metrics"`
	SupportingMetrics []MetricSelection `json:"supporting_metrics" yaml:"supporting_metrics"`
	Dimensions        []string          `json:"dimensions" yaml:"dimensions"`
	DateRange         daterange.Range   `json:"date_range" yaml:"date_range"`
	CompareRange      daterange.Range   `json:"compare_range" yaml:"compare_range"`
}

// Selection snapshots the current state in export form.
func (p *Panel) Selection() Selection {
	s := Selection{
		Metrics:           []MetricSelection{},
		SupportingMetrics: []MetricSelection{},
		Dimensions:        []string{},
		DateRange:         p.ranges.Primary,
		CompareRange:      p.ranges.Comparison,
	}
	for _, e := range p.classifier.Entries() {
		switch e.Role {
		case columns.RoleDate:
			s.DateColumn = e.Column
		case columns.RoleMetric:
			s.Metrics = append(s.Metrics, MetricSelection{Column: e.Column, Aggregation: e.Aggregation})
		case columns.RoleSupportingMetric:
			s.SupportingMetrics = append(s.SupportingMetrics, MetricSelection{Column: e.Column, Aggregation: e.Aggregation})
		case columns.RoleDimension:
			s.Dimensions = append(s.Dimensions, e.Column)
		}
	}
	return s
}
