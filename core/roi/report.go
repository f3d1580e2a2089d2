package roi

import (
	"fmt"

	"pingplotter-roi/core/types"
)

// Chart names
const (
	ChartROI       = "roi"
	ChartBreakeven = "breakeven"
)

// Axis identifies which axis a reference line is drawn against
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ReferenceLine is a dashed marker drawn across a chart
type ReferenceLine struct {
	Axis  Axis    `json:"axis"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Series is one plotted line
type Series struct {
	Name   string    `json:"name"`
	Column Column    `json:"column"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// ChartData is everything a renderer needs to draw one line chart.
type ChartData struct {
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	XLabel         string          `json:"x_label"`
	YLabel         string          `json:"y_label"`
	Series         []Series        `json:"series"`
	ReferenceLines []ReferenceLine `json:"reference_lines,omitempty"`
}

// Report bundles the table, both summary rows and the data of both charts.
type Report struct {
	Input          types.ScenarioInput `json:"input"`
	Currency       types.Currency      `json:"currency"`
	ROIChart       ChartData           `json:"roi_chart"`
	BreakevenChart ChartData           `json:"breakeven_chart"`
	MinROI         *Row                `json:"min_roi"`
	MaxROI         *Row                `json:"max_roi"`
	Table          *Table              `json:"table"`
}

// Chart returns the chart with the given name.
func (r *Report) Chart(name string) (ChartData, bool) {
	switch name {
	case ChartROI:
		return r.ROIChart, true
	case ChartBreakeven:
		return r.BreakevenChart, true
	}
	return ChartData{}, false
}

// NewReport assembles a report from a built table.
func NewReport(t *Table) *Report {
	rep := &Report{
		Input:    t.Input(),
		Currency: types.CurrencyUSD,
		Table:    t,
	}
	if row, ok := MinROI(t); ok {
		rep.MinROI = &row
	}
	if row, ok := MaxROI(t); ok {
		rep.MaxROI = &row
	}
	rep.ROIChart = roiChart(t, rep.MaxROI, rep.Currency)
	rep.BreakevenChart = breakevenChart(t, rep.MinROI, rep.Currency)
	return rep
}

// Evaluate builds the table for in and assembles its report.
func Evaluate(in types.ScenarioInput, opts ...Option) (*Report, error) {
	t, err := Build(in, opts...)
	if err != nil {
		return nil, err
	}
	return NewReport(t), nil
}

func roiChart(t *Table, best *Row, cur types.Currency) ChartData {
	title := "Negative ROI"
	if best != nil {
		title = fmt.Sprintf("Max ROI saves %s%s in monthly downtime",
			cur.Symbol(), best.DowntimeImpact.RoundBank(0).String())
	}
	return ChartData{
		Name:   ChartROI,
		Title:  title,
		XLabel: string(ColumnTraces),
		YLabel: "monthly cost",
		Series: []Series{
			series(t, ColumnToolCost),
			series(t, ColumnDowntimeImpact),
		},
	}
}

func breakevenChart(t *Table, breakeven *Row, cur types.Currency) ChartData {
	chart := ChartData{
		Name:   ChartBreakeven,
		Title:  "Negative Roi",
		XLabel: string(ColumnTraces),
		YLabel: "monthly cost",
		Series: []Series{
			series(t, ColumnDowntimeCost),
			series(t, ColumnAdjustedDowntime),
		},
	}
	if breakeven == nil {
		return chart
	}
	chart.Title = fmt.Sprintf("Positive ROI begins at %d traces for %s%s/mo",
		breakeven.Traces, cur.Symbol(), breakeven.ToolCost.RoundBank(0).String())
	chart.ReferenceLines = []ReferenceLine{
		{Axis: AxisY, Value: breakeven.Float(ColumnAdjustedDowntime), Label: "Breakeven downtime"},
		{Axis: AxisX, Value: float64(breakeven.Traces), Label: "Min ROI Traces"},
	}
	return chart
}

func series(t *Table, c Column) Series {
	return Series{
		Name:   string(c),
		Column: c,
		X:      t.Series(ColumnTraces),
		Y:      t.Series(c),
	}
}
