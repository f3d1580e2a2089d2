package types

import (
	"testing"

	"github.com/shopspring/decimal"

	"pingplotter-roi/internal/errors"
)

func TestScenarioInputValidate(t *testing.T) {
	d := decimal.NewFromFloat
	tests := []struct {
		name    string
		input   ScenarioInput
		wantErr bool
	}{
		{"valid", ScenarioInput{20, 2, d(746.4), d(0.5)}, false},
		{"zero downtime cost is valid", ScenarioInput{1, 1, decimal.Zero, d(1)}, false},
		{"zero users", ScenarioInput{0, 2, d(10), d(0.5)}, true},
		{"negative services", ScenarioInput{10, -1, d(10), d(0.5)}, true},
		{"negative downtime cost", ScenarioInput{10, 1, d(-1), d(0.5)}, true},
		{"impact above one", ScenarioInput{10, 1, d(10), d(1.01)}, true},
		{"negative impact", ScenarioInput{10, 1, d(10), d(-0.1)}, true},
		{"trace count at the limit", ScenarioInput{1_000_000, 1_000_000, d(10), d(0.5)}, false},
		{"trace count above the limit", ScenarioInput{1_000_001, 1_000_000, d(10), d(0.5)}, true},
		{"product overflows int64", ScenarioInput{4294967297, 4294967296, d(10), d(0.5)}, true},
		{"huge user count", ScenarioInput{100_000_000_000_000_000, 1, d(10), d(0.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected INPUT_ERROR, got %v", err)
			}
		})
	}
}

func TestMaxTraces(t *testing.T) {
	in, err := NewScenarioInput(250, 3, decimal.NewFromInt(100), DefaultDowntimeImpact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.MaxTraces() != 750 {
		t.Errorf("expected 750 traces, got %d", in.MaxTraces())
	}
}

func TestOrganizationProfileImpactDefault(t *testing.T) {
	p := OrganizationProfile{UserCount: 1, CriticalServices: 1}
	if !p.Impact().Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected default impact 0.5, got %s", p.Impact())
	}

	custom := decimal.NewFromFloat(0.8)
	p.DowntimeImpact = &custom
	if !p.Impact().Equal(custom) {
		t.Errorf("expected impact 0.8, got %s", p.Impact())
	}
}

func TestOrganizationProfileRejectsNegativeCost(t *testing.T) {
	p := OrganizationProfile{
		UserCount:            10,
		CriticalServices:     1,
		UserHourlyCost:       decimal.NewFromInt(-5),
		ITHourlyCost:         decimal.NewFromInt(50),
		IssueFrequency:       decimal.NewFromInt(2),
		IssueDurationMinutes: decimal.NewFromInt(30),
	}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for negative user_cost")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}

func TestOrganizationProfileRejectsHugeTraceCount(t *testing.T) {
	p := OrganizationProfile{UserCount: 4294967297, CriticalServices: 4294967296}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for a trace count beyond the limit")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}
