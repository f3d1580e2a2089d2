package profile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/errors"
)

func TestLoadLegal(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "legal.hcl"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, err := f.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if p.Name != "legal" {
		t.Errorf("expected profile legal, got %q", p.Name)
	}

	org := p.Organization
	if org.UserCount != 20 || org.CriticalServices != 2 {
		t.Errorf("unexpected counts: %d users, %d services", org.UserCount, org.CriticalServices)
	}
	if org.DowntimeImpact != nil {
		t.Errorf("expected unset impact, got %s", org.DowntimeImpact)
	}

	in, err := roi.InputFromProfile(org)
	if err != nil {
		t.Fatalf("InputFromProfile: %v", err)
	}
	if !in.MonthlyDowntimeCost.Equal(decimal.RequireFromString("746.4")) {
		t.Errorf("expected 746.4 monthly downtime, got %s", in.MonthlyDowntimeCost)
	}

	if f.Pricing != nil {
		t.Error("legal profile has no pricing block")
	}
	if len(f.Schedule().Tiers) != len(pricing.DefaultSchedule().Tiers) {
		t.Error("expected default schedule fallback")
	}
}

func TestLoadMultipleProfilesWithPricing(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "offices.hcl"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := strings.Join(f.Names(), ","); got != "clinic,default" {
		t.Errorf("unexpected names: %s", got)
	}

	clinic, err := f.Get("clinic")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !clinic.Organization.UserHourlyCost.Equal(decimal.RequireFromString("85.5")) {
		t.Errorf("expected exact user cost 85.5, got %s", clinic.Organization.UserHourlyCost)
	}
	if !clinic.Organization.Impact().Equal(decimal.RequireFromString("0.35")) {
		t.Errorf("expected impact 0.35, got %s", clinic.Organization.Impact())
	}

	def, err := f.Default()
	if err != nil || def.Name != "default" {
		t.Errorf("expected profile named default, got %q %v", def.Name, err)
	}

	s := f.Schedule()
	if len(s.Tiers) != 3 || !s.Tiers[2].Unlimited() {
		t.Fatalf("unexpected schedule: %+v", s.Tiers)
	}
	rate, err := s.PricePerTrace(120)
	if err != nil || rate != 8 {
		t.Errorf("expected 8 per trace at 120 traces, got %d %v", rate, err)
	}

	if _, err := f.Get("warehouse"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		errType errors.Type
		substr  string
	}{
		{
			name:    "syntax",
			src:     "profile \"x\" {\n  user_count = \n}\n",
			errType: errors.TypeParsing,
			substr:  "p.hcl:",
		},
		{
			name:    "missing attribute",
			src:     "profile \"x\" {\n  user_count = 1\n}\n",
			errType: errors.TypeParsing,
			substr:  "user_cost",
		},
		{
			name: "not a number",
			src: `profile "x" {
  user_count        = 1
  user_cost         = "lots"
  it_cost           = 1
  frequency         = 1
  duration          = 1
  critical_services = 1
}`,
			errType: errors.TypeParsing,
			substr:  "user_cost must be a number",
		},
		{
			name: "negative cost",
			src: `profile "x" {
  user_count        = 1
  user_cost         = -5
  it_cost           = 1
  frequency         = 1
  duration          = 1
  critical_services = 1
}`,
			errType: errors.TypeInput,
			substr:  "user_cost",
		},
		{
			name:    "bad schedule",
			src:     "pricing {\n  tier {\n    up_to = 10\n    rate = 5\n  }\n}\n",
			errType: errors.TypePricing,
		},
		{
			name:    "empty",
			src:     "# nothing here\n",
			errType: errors.TypeParsing,
			substr:  "no profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "p.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsType(err, tt.errType) {
				t.Errorf("expected %s, got %v", tt.errType, err)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected %q in %q", tt.substr, err.Error())
			}
		})
	}
}

func TestDefaultAmbiguous(t *testing.T) {
	f := &File{Path: "x.hcl", Profiles: []Profile{{Name: "a"}, {Name: "b"}}}
	if _, err := f.Default(); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}
