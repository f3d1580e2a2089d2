// Package profile loads organization profiles and optional price schedules
// from HCL files.
//
//	profile "legal" {
//	  user_count        = 20
//	  user_cost         = 200
//	  it_cost           = 111
//	  frequency         = 4
//	  duration          = 36
//	  critical_services = 2
//	}
//
//	pricing {
//	  tier {
//	    up_to = 25
//	    rate  = 10
//	  }
//	  tier { rate = 5 }
//	}
package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/types"
	"pingplotter-roi/internal/errors"
)

// Profile is a named organization profile
type Profile struct {
	Name         string                    `json:"name"`
	Organization types.OrganizationProfile `json:"organization"`
}

// File is the decoded content of one profile file. Profiles are kept in
// declaration order.
type File struct {
	Path     string            `json:"path,omitempty"`
	Profiles []Profile         `json:"profiles"`
	Pricing  *pricing.Schedule `json:"pricing,omitempty"`
}

// Diagnostic is one problem found while decoding
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.File, d.Message)
}

type fileSchema struct {
	Profiles []profileBlock `hcl:"profile,block"`
	Pricing  *pricingBlock  `hcl:"pricing,block"`
}

// Monetary fields stay expressions so they are decoded without passing
// through float64.
type profileBlock struct {
	Name             string         `hcl:"name,label"`
	UserCount        int            `hcl:"user_count"`
	UserCost         hcl.Expression `hcl:"user_cost"`
	ITCost           hcl.Expression `hcl:"it_cost"`
	Frequency        hcl.Expression `hcl:"frequency"`
	Duration         hcl.Expression `hcl:"duration"`
	CriticalServices int            `hcl:"critical_services"`
	DowntimeImpact   hcl.Expression `hcl:"downtime_impact,optional"`
}

type pricingBlock struct {
	Tiers []pricing.Tier `hcl:"tier,block"`
}

// Load reads and decodes a profile file.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("profile file", path)
		}
		return nil, errors.Wrap(errors.TypeInput, "failed to read profile file", err).WithContext("file", path)
	}
	return Parse(src, path)
}

// Parse decodes profile source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	out := &File{Path: filename}
	seen := make(map[string]hcl.Range)
	for _, b := range raw.Profiles {
		p, err := b.decode(filename)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[b.Name]; dup {
			return nil, errors.Parsing(Diagnostic{
				File:    filename,
				Line:    b.UserCost.Range().Start.Line,
				Message: fmt.Sprintf("profile %q already defined on line %d", b.Name, prev.Start.Line),
			}.String(), nil)
		}
		seen[b.Name] = b.UserCost.Range()
		out.Profiles = append(out.Profiles, p)
	}

	if raw.Pricing != nil {
		s := pricing.Schedule{Tiers: raw.Pricing.Tiers}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out.Pricing = &s
	}

	if len(out.Profiles) == 0 && out.Pricing == nil {
		return nil, errors.Parsing(filename+": no profile or pricing blocks", nil)
	}
	return out, nil
}

func (b profileBlock) decode(filename string) (Profile, error) {
	org := types.OrganizationProfile{
		UserCount:        b.UserCount,
		CriticalServices: b.CriticalServices,
	}

	fields := []struct {
		name string
		expr hcl.Expression
		dst  *decimal.Decimal
	}{
		{"user_cost", b.UserCost, &org.UserHourlyCost},
		{"it_cost", b.ITCost, &org.ITHourlyCost},
		{"frequency", b.Frequency, &org.IssueFrequency},
		{"duration", b.Duration, &org.IssueDurationMinutes},
	}
	for _, f := range fields {
		d, err := decodeDecimal(filename, f.name, f.expr)
		if err != nil {
			return Profile{}, err
		}
		*f.dst = d
	}

	if b.DowntimeImpact != nil && !isNull(b.DowntimeImpact) {
		d, err := decodeDecimal(filename, "downtime_impact", b.DowntimeImpact)
		if err != nil {
			return Profile{}, err
		}
		org.DowntimeImpact = &d
	}

	if err := org.Validate(); err != nil {
		if e, ok := err.(*errors.Error); ok {
			return Profile{}, e.WithContext("profile", b.Name).WithContext("file", filename)
		}
		return Profile{}, err
	}
	return Profile{Name: b.Name, Organization: org}, nil
}

// decodeDecimal converts a number expression through its string form, which
// keeps literals such as 746.4 exact.
func decodeDecimal(filename, name string, expr hcl.Expression) (decimal.Decimal, error) {
	var s string
	if diags := gohcl.DecodeExpression(expr, nil, &s); diags.HasErrors() {
		return decimal.Zero, diagError(filename, diags)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Parsing(Diagnostic{
			File:    filename,
			Line:    expr.Range().Start.Line,
			Message: fmt.Sprintf("%s must be a number, got %q", name, s),
		}.String(), err)
	}
	return d, nil
}

// isNull reports whether an optional attribute was left out.
func isNull(expr hcl.Expression) bool {
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

func diagError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		d := Diagnostic{File: filename, Message: diag.Summary}
		if diag.Detail != "" {
			d.Message += ": " + diag.Detail
		}
		if diag.Subject != nil {
			d.Line = diag.Subject.Start.Line
		}
		msgs = append(msgs, d.String())
	}
	return errors.Parsing(strings.Join(msgs, "; "), diags)
}

// Get returns the named profile.
func (f *File) Get(name string) (Profile, error) {
	for _, p := range f.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, errors.NotFound("profile", name).WithContext("file", f.Path)
}

// Default returns the only profile of a single-profile file, or the profile
// named "default".
func (f *File) Default() (Profile, error) {
	if len(f.Profiles) == 1 {
		return f.Profiles[0], nil
	}
	if p, err := f.Get("default"); err == nil {
		return p, nil
	}
	return Profile{}, errors.Inputf("file %s holds %d profiles (%s); pick one by name",
		f.Path, len(f.Profiles), strings.Join(f.Names(), ", "))
}

// Names lists profile names in sorted order
func (f *File) Names() []string {
	out := make([]string, len(f.Profiles))
	for i, p := range f.Profiles {
		out[i] = p.Name
	}
	sort.Strings(out)
	return out
}

// Schedule returns the file's price schedule, or the default one.
func (f *File) Schedule() pricing.Schedule {
	if f.Pricing != nil {
		return *f.Pricing
	}
	return pricing.DefaultSchedule()
}
