package downtime

import (
	"testing"

	"github.com/shopspring/decimal"

	"pingplotter-roi/internal/errors"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCalcDowntimeCost(t *testing.T) {
	tests := []struct {
		name                     string
		user, it, freq, duration float64
		want                     string
	}{
		{"legal IT example", 200, 111, 4, 36, "746.4"},
		{"form defaults", 20, 500, 25, 15, "3250"},
		{"no issues", 20, 500, 0, 15, "0"},
		{"zero duration", 20, 500, 10, 0, "0"},
		{"fractional hour", 30, 30, 1, 20, "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalcDowntimeCost(d(tt.user), d(tt.it), d(tt.freq), d(tt.duration))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBreakdown(t *testing.T) {
	c, err := Breakdown(d(200), d(111), d(4), d(36))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Hourly.Equal(d(311)) {
		t.Errorf("expected hourly 311, got %s", c.Hourly)
	}
	if !c.PerIssue.Equal(d(186.6)) {
		t.Errorf("expected per-issue 186.6, got %s", c.PerIssue)
	}
	if !c.Monthly.Equal(d(746.4)) {
		t.Errorf("expected monthly 746.4, got %s", c.Monthly)
	}
}

func TestCalcDowntimeCostRejectsNegative(t *testing.T) {
	_, err := CalcDowntimeCost(d(20), d(-1), d(2), d(10))
	if err == nil {
		t.Fatal("expected error for negative it_cost")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}
