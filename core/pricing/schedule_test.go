package pricing

import (
	"testing"

	"pingplotter-roi/internal/errors"
)

func TestPricePerTraceTiers(t *testing.T) {
	tests := []struct {
		traces int64
		want   int64
	}{
		{0, 10},
		{1, 10},
		{25, 10},
		{26, 9},
		{50, 9},
		{51, 8},
		{100, 8},
		{101, 6},
		{250, 6},
		{251, 5},
		{100000, 5},
	}

	for _, tt := range tests {
		got, err := PricePerTrace(tt.traces)
		if err != nil {
			t.Fatalf("PricePerTrace(%d): unexpected error: %v", tt.traces, err)
		}
		if got != tt.want {
			t.Errorf("PricePerTrace(%d) = %d, want %d", tt.traces, got, tt.want)
		}
	}
}

// TestPricePerTraceNonIncreasing walks well past the last boundary.
func TestPricePerTraceNonIncreasing(t *testing.T) {
	allowed := map[int64]bool{10: true, 9: true, 8: true, 6: true, 5: true}
	prev := int64(1 << 62)
	for n := int64(0); n <= 1000; n++ {
		rate, err := PricePerTrace(n)
		if err != nil {
			t.Fatalf("PricePerTrace(%d): %v", n, err)
		}
		if !allowed[rate] {
			t.Fatalf("PricePerTrace(%d) = %d, not a published rate", n, rate)
		}
		if rate > prev {
			t.Fatalf("rate increased at %d traces: %d > %d", n, rate, prev)
		}
		prev = rate
	}
}

func TestPricePerTraceRejectsNegative(t *testing.T) {
	_, err := PricePerTrace(-1)
	if err == nil {
		t.Fatal("expected error for negative trace count")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}

func TestToolCost(t *testing.T) {
	tests := []struct {
		traces int64
		want   string
	}{
		{0, "0"},
		{25, "250"},
		{40, "360"},
		{100, "800"},
		{300, "1500"},
	}
	for _, tt := range tests {
		got, err := ToolCost(tt.traces)
		if err != nil {
			t.Fatalf("ToolCost(%d): %v", tt.traces, err)
		}
		if got.String() != tt.want {
			t.Errorf("ToolCost(%d) = %s, want %s", tt.traces, got, tt.want)
		}
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []Tier
		wantErr bool
	}{
		{"default", DefaultSchedule().Tiers, false},
		{"single unlimited", []Tier{{UpTo: 0, Rate: 7}}, false},
		{"empty", nil, true},
		{"missing unlimited tier", []Tier{{UpTo: 10, Rate: 5}}, true},
		{"unlimited in the middle", []Tier{{UpTo: 0, Rate: 5}, {UpTo: 10, Rate: 4}}, true},
		{"bounds not increasing", []Tier{{UpTo: 10, Rate: 5}, {UpTo: 10, Rate: 4}, {UpTo: 0, Rate: 3}}, true},
		{"rate increases", []Tier{{UpTo: 10, Rate: 5}, {UpTo: 0, Rate: 6}}, true},
		{"zero rate", []Tier{{UpTo: 0, Rate: 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Schedule{Tiers: tt.tiers}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.IsType(err, errors.TypePricing) {
				t.Errorf("expected PRICING_ERROR, got %v", err)
			}
		})
	}
}

func TestCustomSchedule(t *testing.T) {
	s := Schedule{Tiers: []Tier{{UpTo: 10, Rate: 12}, {UpTo: 0, Rate: 4}}}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cost, err := s.ToolCost(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.String() != "44" {
		t.Errorf("expected 44, got %s", cost)
	}
}

func TestToolCostBeyondInt64(t *testing.T) {
	s := Schedule{Tiers: []Tier{{Rate: 1 << 40}}}
	got, err := s.ToolCost(1 << 40)
	if err != nil {
		t.Fatalf("ToolCost: %v", err)
	}
	if got.String() != "1208925819614629174706176" {
		t.Errorf("ToolCost(2^40) at 2^40 per trace = %s, want 2^80", got)
	}
}
