// Package roi builds the coverage scenario table that compares the monthly
// cost of a monitoring subscription with the downtime cost it removes, and
// answers the breakeven and full-rollout queries over it.
package roi

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/types"
)

// Column names a numeric column of the scenario table
type Column string

const (
	ColumnTraces           Column = "traces"
	ColumnCoverage         Column = "coverage"
	ColumnToolCost         Column = "tool_cost"
	ColumnCostPerTrace     Column = "cost_per_trace"
	ColumnDowntimeCost     Column = "downtime_cost"
	ColumnDowntimeImpact   Column = "downtime_impact"
	ColumnAdjustedDowntime Column = "adjusted_downtime"
	ColumnROI              Column = "roi"
)

// Columns lists every column in table-dump order.
func Columns() []Column {
	return []Column{
		ColumnTraces,
		ColumnCoverage,
		ColumnToolCost,
		ColumnCostPerTrace,
		ColumnDowntimeCost,
		ColumnDowntimeImpact,
		ColumnAdjustedDowntime,
		ColumnROI,
	}
}

// Row is one scenario of the table
type Row struct {
	// Coverage is the monitored share of user x service paths, 0.00..1.00
	Coverage decimal.Decimal `json:"coverage"`

	// Traces is the number of monitored paths at this coverage
	Traces int64 `json:"traces"`

	// CostPerTrace is the tier price applied to every trace
	CostPerTrace int64 `json:"cost_per_trace"`

	// ToolCost is the monthly subscription cost
	ToolCost decimal.Decimal `json:"tool_cost"`

	// DowntimeCost is the monthly downtime cost without the tool
	DowntimeCost decimal.Decimal `json:"downtime_cost"`

	// DowntimeImpact is the downtime cost removed at this coverage
	DowntimeImpact decimal.Decimal `json:"downtime_impact"`

	// AdjustedDowntime is the downtime cost left after the tool's effect
	AdjustedDowntime decimal.Decimal `json:"adjusted_downtime"`

	// ROI is (DowntimeImpact - ToolCost) / ToolCost
	ROI decimal.Decimal `json:"roi"`

	// roiDefined is false while ToolCost is zero
	roiDefined bool
}

// Value returns the column value as a decimal.
func (r Row) Value(c Column) decimal.Decimal {
	switch c {
	case ColumnTraces:
		return decimal.NewFromInt(r.Traces)
	case ColumnCoverage:
		return r.Coverage
	case ColumnToolCost:
		return r.ToolCost
	case ColumnCostPerTrace:
		return decimal.NewFromInt(r.CostPerTrace)
	case ColumnDowntimeCost:
		return r.DowntimeCost
	case ColumnDowntimeImpact:
		return r.DowntimeImpact
	case ColumnAdjustedDowntime:
		return r.AdjustedDowntime
	case ColumnROI:
		return r.ROI
	}
	return decimal.Zero
}

// Float returns the column value as a float64, for plotting.
func (r Row) Float(c Column) float64 {
	return r.Value(c).InexactFloat64()
}

// Equal compares every column.
func (r Row) Equal(o Row) bool {
	for _, c := range Columns() {
		if !r.Value(c).Equal(o.Value(c)) {
			return false
		}
	}
	return r.roiDefined == o.roiDefined
}

// absorb folds o into r keeping the larger value of every column.
func (r *Row) absorb(o Row) {
	r.Coverage = decimal.Max(r.Coverage, o.Coverage)
	r.Traces = max(r.Traces, o.Traces)
	r.CostPerTrace = max(r.CostPerTrace, o.CostPerTrace)
	r.ToolCost = decimal.Max(r.ToolCost, o.ToolCost)
	r.DowntimeCost = decimal.Max(r.DowntimeCost, o.DowntimeCost)
	r.DowntimeImpact = decimal.Max(r.DowntimeImpact, o.DowntimeImpact)
	r.AdjustedDowntime = decimal.Max(r.AdjustedDowntime, o.AdjustedDowntime)
	switch {
	case !o.roiDefined:
	case !r.roiDefined:
		r.ROI, r.roiDefined = o.ROI, true
	default:
		r.ROI = decimal.Max(r.ROI, o.ROI)
	}
}

// Table is the deduplicated scenario table, sorted by ascending trace count.
// It is immutable once built.
type Table struct {
	input    types.ScenarioInput
	schedule pricing.Schedule
	rows     []Row
}

// Input returns the input the table was built from
func (t *Table) Input() types.ScenarioInput {
	return t.input
}

// Schedule returns the pricing schedule the table was built with
func (t *Table) Schedule() pricing.Schedule {
	return t.schedule
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the row at index i
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns a copy of the rows
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Series extracts a column as float64 values in row order.
func (t *Table) Series(c Column) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Float(c)
	}
	return out
}

// Equal reports whether both tables hold the same rows.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !t.rows[i].Equal(o.rows[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the table as its row list
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rows []Row `json:"rows"`
	}{Rows: t.rows})
}
