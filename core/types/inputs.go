package types

import (
	"github.com/shopspring/decimal"

	"pingplotter-roi/internal/errors"
)

// DefaultDowntimeImpact is the share of downtime cost the tool is assumed to
// eliminate at full coverage when the caller does not supply one.
var DefaultDowntimeImpact = decimal.NewFromFloat(0.5)

// MaxTraceCount bounds user_count x critical_services. Coverage steps over
// this many traces stay far inside int64.
const MaxTraceCount int64 = 1_000_000_000_000

// checkTraceCount rejects path counts above MaxTraceCount without
// overflowing; both counts must already be positive.
func checkTraceCount(users, services int) error {
	if int64(users) > MaxTraceCount/int64(services) {
		return errors.Inputf("user_count x critical_services must not exceed %d, got %d x %d",
			MaxTraceCount, users, services).WithContext("field", "user_count")
	}
	return nil
}

// ScenarioInput is the validated input of the ROI model.
type ScenarioInput struct {
	// UserCount is the number of end users
	UserCount int `json:"user_count"`

	// CriticalServices is the number of services monitored per user
	CriticalServices int `json:"critical_services"`

	// MonthlyDowntimeCost is the organization's downtime cost in dollars/month
	MonthlyDowntimeCost decimal.Decimal `json:"monthly_downtime_cost"`

	// DowntimeImpact is the fraction of downtime cost eliminated at 100% coverage
	DowntimeImpact decimal.Decimal `json:"downtime_impact"`
}

// NewScenarioInput builds a ScenarioInput and validates it.
func NewScenarioInput(userCount, criticalServices int, monthlyDowntimeCost, downtimeImpact decimal.Decimal) (ScenarioInput, error) {
	in := ScenarioInput{
		UserCount:           userCount,
		CriticalServices:    criticalServices,
		MonthlyDowntimeCost: monthlyDowntimeCost,
		DowntimeImpact:      downtimeImpact,
	}
	if err := in.Validate(); err != nil {
		return ScenarioInput{}, err
	}
	return in, nil
}

// Validate checks the domain of every field.
func (in ScenarioInput) Validate() error {
	if in.UserCount <= 0 {
		return errors.Inputf("user_count must be positive, got %d", in.UserCount).WithContext("field", "user_count")
	}
	if in.CriticalServices <= 0 {
		return errors.Inputf("critical_services must be positive, got %d", in.CriticalServices).WithContext("field", "critical_services")
	}
	if err := checkTraceCount(in.UserCount, in.CriticalServices); err != nil {
		return err
	}
	if in.MonthlyDowntimeCost.IsNegative() {
		return errors.Inputf("monthly_downtime_cost must not be negative, got %s", in.MonthlyDowntimeCost).WithContext("field", "monthly_downtime_cost")
	}
	if in.DowntimeImpact.IsNegative() || in.DowntimeImpact.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Inputf("downtime_impact must be within [0,1], got %s", in.DowntimeImpact).WithContext("field", "downtime_impact")
	}
	return nil
}

// MaxTraces is the trace count at full coverage. It is exact for validated
// inputs.
func (in ScenarioInput) MaxTraces() int64 {
	return int64(in.UserCount) * int64(in.CriticalServices)
}

// OrganizationProfile holds the raw organizational figures a user enters:
// head count, hourly costs and how often, and for how long, the network fails.
type OrganizationProfile struct {
	// UserCount is the number of end users
	UserCount int `json:"user_count"`

	// UserHourlyCost is the loaded hourly cost of one user
	UserHourlyCost decimal.Decimal `json:"user_cost"`

	// ITHourlyCost is the hourly cost of IT staff working an issue
	ITHourlyCost decimal.Decimal `json:"it_cost"`

	// IssueFrequency is the number of network issues per month
	IssueFrequency decimal.Decimal `json:"frequency"`

	// IssueDurationMinutes is the average duration of one issue
	IssueDurationMinutes decimal.Decimal `json:"duration"`

	// CriticalServices is the number of services monitored per user
	CriticalServices int `json:"critical_services"`

	// DowntimeImpact is optional; DefaultDowntimeImpact applies when nil
	DowntimeImpact *decimal.Decimal `json:"downtime_impact,omitempty"`
}

// Impact returns the effective downtime impact fraction.
func (p OrganizationProfile) Impact() decimal.Decimal {
	if p.DowntimeImpact == nil {
		return DefaultDowntimeImpact
	}
	return *p.DowntimeImpact
}

// Validate rejects negative costs and non-positive counts.
func (p OrganizationProfile) Validate() error {
	if p.UserCount <= 0 {
		return errors.Inputf("user_count must be positive, got %d", p.UserCount).WithContext("field", "user_count")
	}
	if p.CriticalServices <= 0 {
		return errors.Inputf("critical_services must be positive, got %d", p.CriticalServices).WithContext("field", "critical_services")
	}
	if err := checkTraceCount(p.UserCount, p.CriticalServices); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"user_cost", p.UserHourlyCost},
		{"it_cost", p.ITHourlyCost},
		{"frequency", p.IssueFrequency},
		{"duration", p.IssueDurationMinutes},
	} {
		if f.value.IsNegative() {
			return errors.Inputf("%s must not be negative, got %s", f.name, f.value).WithContext("field", f.name)
		}
	}
	impact := p.Impact()
	if impact.IsNegative() || impact.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Inputf("downtime_impact must be within [0,1], got %s", impact).WithContext("field", "downtime_impact")
	}
	return nil
}
