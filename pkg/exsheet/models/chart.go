package models

// Chart types.
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
	ChartArea = "area"
)

// ChartTypes lists the supported chart types.
var ChartTypes = []string{ChartBar, ChartLine, ChartPie, ChartArea}

// DefaultChartRange is the range charted when none is given (A1:F6).
var DefaultChartRange = Range{R1: 1, C1: 1, R2: 6, C2: 6}

// ChartSeries represents one data row of a chart.
type ChartSeries struct {
	// Name is the series display name ("Dataset 1", "Dataset 2", ...).
	Name string `json:"name"`
	// XRange is the range reference of the category labels.
	XRange string `json:"x_range"`
	// YRange is the range reference of the series values.
	YRange string `json:"y_range"`
	// Values holds the numeric values of YRange. Non-numeric cells are 0.
	Values []float64 `json:"values"`
}

// Chart represents a chart over a range of a sheet. The first row of the
// range holds the category labels; every following row is one series.
type Chart struct {
	// ChartType is one of ChartTypes.
	ChartType string `json:"chart_type"`
	// Range is the charted cell range.
	Range Range `json:"range"`
	// Labels are the category labels read from the first row.
	Labels []string `json:"labels,omitempty"`
	// Series is the list of series included in the chart.
	Series []ChartSeries `json:"series,omitempty"`
}
