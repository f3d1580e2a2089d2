package roi

import (
	"sort"

	"github.com/shopspring/decimal"

	"pingplotter-roi/core/downtime"
	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/types"
)

// gridSteps is the number of coverage steps between 0% and 100%.
const gridSteps = 100

type options struct {
	schedule pricing.Schedule
}

// Option customizes Build
type Option func(*options)

// WithSchedule prices traces with s instead of the default schedule.
func WithSchedule(s pricing.Schedule) Option {
	return func(o *options) {
		o.schedule = s
	}
}

// Build evaluates every coverage level from 0% to 100% in 1% steps, merges
// the levels that land on the same trace count and drops rows whose ROI is
// undefined because the tool costs nothing.
func Build(in types.ScenarioInput, opts ...Option) (*Table, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	o := options{schedule: pricing.DefaultSchedule()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.schedule.Validate(); err != nil {
		return nil, err
	}

	maxTraces := in.MaxTraces()
	byTraces := make(map[int64]*Row, gridSteps+1)
	for step := int64(0); step <= gridSteps; step++ {
		row, err := scenario(in, o.schedule, step, maxTraces)
		if err != nil {
			return nil, err
		}
		if best, ok := byTraces[row.Traces]; ok {
			best.absorb(row)
			continue
		}
		byTraces[row.Traces] = &row
	}

	rows := make([]Row, 0, len(byTraces))
	for _, r := range byTraces {
		if !r.roiDefined {
			continue
		}
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Traces < rows[j].Traces
	})

	return &Table{
		input:    in,
		schedule: o.schedule,
		rows:     rows,
	}, nil
}

// scenario computes the row for coverage step/100.
func scenario(in types.ScenarioInput, schedule pricing.Schedule, step, maxTraces int64) (Row, error) {
	coverage := decimal.New(step, -2)
	// ceil(step * maxTraces / 100) in integers; coverage*maxTraces in floating
	// point overshoots on values like 0.07*100.
	traces := (step*maxTraces + gridSteps - 1) / gridSteps

	rate, err := schedule.PricePerTrace(traces)
	if err != nil {
		return Row{}, err
	}
	toolCost := decimal.NewFromInt(rate).Mul(decimal.NewFromInt(traces))
	impact := in.MonthlyDowntimeCost.Mul(in.DowntimeImpact).Mul(coverage)

	row := Row{
		Coverage:         coverage,
		Traces:           traces,
		CostPerTrace:     rate,
		ToolCost:         toolCost,
		DowntimeCost:     in.MonthlyDowntimeCost,
		DowntimeImpact:   impact,
		AdjustedDowntime: in.MonthlyDowntimeCost.Sub(impact),
	}
	if toolCost.IsPositive() {
		row.ROI = impact.Sub(toolCost).Div(toolCost)
		row.roiDefined = true
	}
	return row, nil
}

// InputFromProfile turns raw organization figures into a model input.
func InputFromProfile(p types.OrganizationProfile) (types.ScenarioInput, error) {
	if err := p.Validate(); err != nil {
		return types.ScenarioInput{}, err
	}
	monthly, err := downtime.CalcDowntimeCost(p.UserHourlyCost, p.ITHourlyCost, p.IssueFrequency, p.IssueDurationMinutes)
	if err != nil {
		return types.ScenarioInput{}, err
	}
	return types.NewScenarioInput(p.UserCount, p.CriticalServices, monthly, p.Impact())
}
