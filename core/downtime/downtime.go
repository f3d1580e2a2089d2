// Package downtime converts an organization's staffing costs and network
// issue history into a monthly downtime cost.
package downtime

import (
	"github.com/shopspring/decimal"

	"pingplotter-roi/internal/errors"
)

var minutesPerHour = decimal.NewFromInt(60)

// Cost is the downtime cost breakdown
type Cost struct {
	// Hourly is the combined user and IT cost of one hour of downtime
	Hourly decimal.Decimal `json:"hourly"`

	// PerIssue is the cost of one average issue
	PerIssue decimal.Decimal `json:"per_issue"`

	// Monthly is the expected downtime cost per month
	Monthly decimal.Decimal `json:"monthly"`
}

// Breakdown computes hourly, per-issue and monthly downtime cost.
// Products are taken before the single division by 60 so that whole-minute
// inputs stay exact.
func Breakdown(userHourlyCost, itHourlyCost, issueFrequency, issueDurationMinutes decimal.Decimal) (Cost, error) {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"user_cost", userHourlyCost},
		{"it_cost", itHourlyCost},
		{"frequency", issueFrequency},
		{"duration", issueDurationMinutes},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return Cost{}, errors.Inputf("%s must not be negative, got %s", f.name, f.value).WithContext("field", f.name)
		}
	}

	hourly := userHourlyCost.Add(itHourlyCost)
	return Cost{
		Hourly:   hourly,
		PerIssue: issueDurationMinutes.Mul(hourly).Div(minutesPerHour),
		Monthly:  issueFrequency.Mul(issueDurationMinutes).Mul(hourly).Div(minutesPerHour),
	}, nil
}

// CalcDowntimeCost returns the monthly downtime cost.
func CalcDowntimeCost(userHourlyCost, itHourlyCost, issueFrequency, issueDurationMinutes decimal.Decimal) (decimal.Decimal, error) {
	c, err := Breakdown(userHourlyCost, itHourlyCost, issueFrequency, issueDurationMinutes)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Monthly, nil
}
