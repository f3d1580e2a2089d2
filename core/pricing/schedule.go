// Package pricing holds the per-trace price schedule of the monitoring tool.
//
// Pricing is volume based, not graduated: the tier that contains the total
// trace count sets the price of every trace.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pingplotter-roi/internal/errors"
)

// Tier is one price level of a schedule
type Tier struct {
	// UpTo is the inclusive upper trace count of the tier (0 = unlimited)
	UpTo int64 `json:"up_to" hcl:"up_to,optional"`

	// Rate is the monthly price of one trace in this tier
	Rate int64 `json:"rate" hcl:"rate"`
}

// Unlimited reports whether the tier has no upper bound
func (t Tier) Unlimited() bool {
	return t.UpTo == 0
}

// Schedule is an ordered list of tiers ending in an unlimited tier.
type Schedule struct {
	Tiers []Tier `json:"tiers"`
}

// DefaultSchedule returns the published PingPlotter price list.
func DefaultSchedule() Schedule {
	return Schedule{Tiers: []Tier{
		{UpTo: 25, Rate: 10},
		{UpTo: 50, Rate: 9},
		{UpTo: 100, Rate: 8},
		{UpTo: 250, Rate: 6},
		{UpTo: 0, Rate: 5},
	}}
}

// Validate checks the tier ordering invariants: strictly increasing upper
// bounds, positive non-increasing rates and a single final unlimited tier.
func (s Schedule) Validate() error {
	if len(s.Tiers) == 0 {
		return errors.Pricing("schedule has no tiers")
	}

	var prevUpTo, prevRate int64
	for i, tier := range s.Tiers {
		last := i == len(s.Tiers)-1
		if tier.Rate <= 0 {
			return errors.Pricing(fmt.Sprintf("tier %d: rate must be positive, got %d", i, tier.Rate))
		}
		if i > 0 && tier.Rate > prevRate {
			return errors.Pricing(fmt.Sprintf("tier %d: rate %d exceeds previous tier rate %d", i, tier.Rate, prevRate))
		}
		switch {
		case tier.Unlimited() && !last:
			return errors.Pricing(fmt.Sprintf("tier %d: only the last tier may be unlimited", i))
		case !tier.Unlimited() && last:
			return errors.Pricing("last tier must be unlimited (up_to = 0)")
		case !tier.Unlimited() && tier.UpTo <= prevUpTo:
			return errors.Pricing(fmt.Sprintf("tier %d: up_to %d must exceed %d", i, tier.UpTo, prevUpTo))
		}
		prevUpTo, prevRate = tier.UpTo, tier.Rate
	}
	return nil
}

// PricePerTrace returns the per-trace price for a total trace count.
func (s Schedule) PricePerTrace(traces int64) (int64, error) {
	if traces < 0 {
		return 0, errors.Inputf("trace count must not be negative, got %d", traces)
	}
	for _, tier := range s.Tiers {
		if tier.Unlimited() || traces <= tier.UpTo {
			return tier.Rate, nil
		}
	}
	return 0, errors.Pricing(fmt.Sprintf("no tier covers %d traces", traces))
}

// ToolCost returns the monthly subscription cost for a trace count.
func (s Schedule) ToolCost(traces int64) (decimal.Decimal, error) {
	rate, err := s.PricePerTrace(traces)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(rate).Mul(decimal.NewFromInt(traces)), nil
}

// PricePerTrace prices a trace count against the default schedule.
func PricePerTrace(traces int64) (int64, error) {
	return DefaultSchedule().PricePerTrace(traces)
}

// ToolCost prices a trace count against the default schedule.
func ToolCost(traces int64) (decimal.Decimal, error) {
	return DefaultSchedule().ToolCost(traces)
}
