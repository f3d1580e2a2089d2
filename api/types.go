// Package api - API types for the ROI endpoints
// Requests carry either raw organization figures or a ready scenario.
package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pingplotter-roi/core/downtime"
	"pingplotter-roi/core/output"
	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/core/types"
	"pingplotter-roi/internal/errors"
)

// ROIRequest is the input to POST /api/v1/roi.
// Profile and Scenario are mutually exclusive; when both are absent the
// configured defaults are used.
type ROIRequest struct {
	// Profile holds raw organization figures
	Profile *types.OrganizationProfile `json:"profile,omitempty"`

	// Scenario skips the downtime calculation
	Scenario *ScenarioRequest `json:"scenario,omitempty"`

	// Pricing overrides the server's price schedule
	Pricing *pricing.Schedule `json:"pricing,omitempty"`
}

// ROIResponse is the output of the ROI endpoints
type ROIResponse struct {
	RequestID string           `json:"request_id"`
	Downtime  *downtime.Cost   `json:"downtime,omitempty"`
	Report    *roi.Report      `json:"report"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// CompareRequest is the input to POST /api/v1/compare
type CompareRequest struct {
	Scenarios []NamedRequest   `json:"scenarios"`
	Pricing   *pricing.Schedule `json:"pricing,omitempty"`
}

// NamedRequest is one scenario of a comparison
type NamedRequest struct {
	Name     string                     `json:"name"`
	Profile  *types.OrganizationProfile `json:"profile,omitempty"`
	Scenario *ScenarioRequest           `json:"scenario,omitempty"`
}

// ScenarioRequest is a ready model input. An omitted downtime_impact takes
// types.DefaultDowntimeImpact, the same default the profile path applies;
// an explicit 0 is kept.
type ScenarioRequest struct {
	UserCount           int              `json:"user_count"`
	CriticalServices    int              `json:"critical_services"`
	MonthlyDowntimeCost decimal.Decimal  `json:"monthly_downtime_cost"`
	DowntimeImpact      *decimal.Decimal `json:"downtime_impact,omitempty"`
}

func (r ScenarioRequest) input() (types.ScenarioInput, error) {
	impact := types.DefaultDowntimeImpact
	if r.DowntimeImpact != nil {
		impact = *r.DowntimeImpact
	}
	return types.NewScenarioInput(r.UserCount, r.CriticalServices, r.MonthlyDowntimeCost, impact)
}

// CompareResponse lists one summary per requested scenario
type CompareResponse struct {
	RequestID string           `json:"request_id"`
	Summaries []roi.Summary    `json:"summaries"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// PricingResponse is the output of GET /api/v1/pricing
type PricingResponse struct {
	Schedule pricing.Schedule `json:"schedule"`
	Quote    *Quote           `json:"quote,omitempty"`
}

// Quote prices a single trace count
type Quote struct {
	Traces       int64           `json:"traces"`
	CostPerTrace int64           `json:"cost_per_trace"`
	ToolCost     decimal.Decimal `json:"tool_cost"`
}

// ResponseMetadata contains reproducibility metadata
type ResponseMetadata struct {
	// Fingerprint identifies the input and price schedule; equal
	// fingerprints mean identical tables.
	Fingerprint string    `json:"fingerprint,omitempty"`
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	DurationMs  int64     `json:"duration_ms"`
}

// ErrorBody is the error envelope of every failed request
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// profileFields are the form parameters of the query-string endpoints, in
// form order.
var profileFields = []string{
	"user_count",
	"user_cost",
	"it_cost",
	"frequency",
	"duration",
	"critical_services",
}

var fieldLabels = map[string]string{
	"user_count":        "Users",
	"user_cost":         "User cost ($/h)",
	"it_cost":           "IT cost ($/h)",
	"frequency":         "Issues per month",
	"duration":          "Issue minutes",
	"critical_services": "Critical services",
}

// reportForm builds the report page's input form, prefilled from p.
func reportForm(action string, p types.OrganizationProfile) *output.Form {
	form := &output.Form{Action: action}
	for _, name := range profileFields {
		var value string
		switch name {
		case "user_count":
			value = strconv.Itoa(p.UserCount)
		case "user_cost":
			value = p.UserHourlyCost.String()
		case "it_cost":
			value = p.ITHourlyCost.String()
		case "frequency":
			value = p.IssueFrequency.String()
		case "duration":
			value = p.IssueDurationMinutes.String()
		case "critical_services":
			value = strconv.Itoa(p.CriticalServices)
		}
		form.Fields = append(form.Fields, output.FormField{Name: name, Label: fieldLabels[name], Value: value})
	}
	if p.DowntimeImpact != nil {
		form.Fields = append(form.Fields, output.FormField{
			Name:   "downtime_impact",
			Value:  p.DowntimeImpact.String(),
			Hidden: true,
		})
	}
	return form
}

// profileFromQuery reads organization figures from query parameters. Every
// parameter must be a whole number; missing ones keep the value from base.
func profileFromQuery(q url.Values, base types.OrganizationProfile) (types.OrganizationProfile, error) {
	p := base
	values := make(map[string]int64, len(profileFields))
	for _, name := range profileFields {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, errors.Inputf("%s must be a whole number, got %q", name, raw).WithContext("field", name)
		}
		values[name] = n
	}

	if n, ok := values["user_count"]; ok {
		p.UserCount = int(n)
	}
	if n, ok := values["critical_services"]; ok {
		p.CriticalServices = int(n)
	}
	if n, ok := values["user_cost"]; ok {
		p.UserHourlyCost = decimal.NewFromInt(n)
	}
	if n, ok := values["it_cost"]; ok {
		p.ITHourlyCost = decimal.NewFromInt(n)
	}
	if n, ok := values["frequency"]; ok {
		p.IssueFrequency = decimal.NewFromInt(n)
	}
	if n, ok := values["duration"]; ok {
		p.IssueDurationMinutes = decimal.NewFromInt(n)
	}

	if raw := strings.TrimSpace(q.Get("downtime_impact")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return p, errors.Inputf("downtime_impact must be a number, got %q", raw).WithContext("field", "downtime_impact")
		}
		p.DowntimeImpact = &d
	}
	return p, nil
}

// resolve turns a request into a model input, computing the downtime
// breakdown when raw figures were given.
func resolve(profile *types.OrganizationProfile, scenario *ScenarioRequest, defaults types.OrganizationProfile) (types.ScenarioInput, *downtime.Cost, error) {
	if profile != nil && scenario != nil {
		return types.ScenarioInput{}, nil, errors.Input("give either profile or scenario, not both")
	}
	if scenario != nil {
		in, err := scenario.input()
		if err != nil {
			return types.ScenarioInput{}, nil, err
		}
		return in, nil, nil
	}

	p := defaults
	if profile != nil {
		p = *profile
	}
	in, err := roi.InputFromProfile(p)
	if err != nil {
		return types.ScenarioInput{}, nil, err
	}
	cost, err := downtime.Breakdown(p.UserHourlyCost, p.ITHourlyCost, p.IssueFrequency, p.IssueDurationMinutes)
	if err != nil {
		return types.ScenarioInput{}, nil, err
	}
	return in, &cost, nil
}
