package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pingplotter-roi/core/downtime"
	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/profile"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/core/types"
	"pingplotter-roi/internal/config"
	"pingplotter-roi/internal/errors"
	"pingplotter-roi/internal/logging"
)

// inputFlags are the organization figures shared by estimate, charts and
// downtime. Unset flags fall back to the profile file, then to the
// configured defaults.
type inputFlags struct {
	users           int
	services        int
	userCost        string
	itCost          string
	frequency       string
	duration        string
	impact          string
	monthlyDowntime string
	profileFile     string
	profileName     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.users, "users", 0, "number of end users")
	fl.IntVar(&f.services, "services", 0, "critical services per user")
	fl.StringVar(&f.userCost, "user-cost", "", "hourly cost of one user")
	fl.StringVar(&f.itCost, "it-cost", "", "hourly cost of IT staff working an issue")
	fl.StringVar(&f.frequency, "frequency", "", "network issues per month")
	fl.StringVar(&f.duration, "duration", "", "average issue duration in minutes")
	fl.StringVar(&f.impact, "impact", "", "share of downtime removed at full coverage, 0..1")
	fl.StringVar(&f.monthlyDowntime, "monthly-downtime", "", "monthly downtime cost; skips the downtime calculation")
	fl.StringVarP(&f.profileFile, "profile", "p", "", "HCL profile file")
	fl.StringVar(&f.profileName, "name", "", "profile to use from a multi-profile file")
}

// resolved is everything a command needs to build a report
type resolved struct {
	name     string
	org      types.OrganizationProfile
	input    types.ScenarioInput
	downtime *downtime.Cost
	schedule pricing.Schedule
}

func (f *inputFlags) resolve(cmd *cobra.Command) (*resolved, error) {
	cfg := config.Get()
	out := &resolved{
		name:     "defaults",
		org:      cfg.Defaults.Organization(),
		schedule: pricing.DefaultSchedule(),
	}

	if path := cfg.Pricing.ProfileFile; path != "" {
		file, err := profile.Load(path)
		if err != nil {
			return nil, err
		}
		out.schedule = file.Schedule()
	}

	if f.profileFile != "" {
		file, err := profile.Load(f.profileFile)
		if err != nil {
			return nil, err
		}
		p, err := pick(file, f.profileName)
		if err != nil {
			return nil, err
		}
		out.name, out.org = p.Name, p.Organization
		if file.Pricing != nil {
			out.schedule = *file.Pricing
		}
		logging.Debug("loaded profile", zap.String("file", f.profileFile), zap.String("profile", p.Name))
	}

	if err := f.override(cmd, &out.org); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("monthly-downtime") {
		monthly, err := parseDecimal("monthly-downtime", f.monthlyDowntime)
		if err != nil {
			return nil, err
		}
		in, err := types.NewScenarioInput(out.org.UserCount, out.org.CriticalServices, monthly, out.org.Impact())
		if err != nil {
			return nil, err
		}
		out.input = in
		return out, nil
	}

	in, err := roi.InputFromProfile(out.org)
	if err != nil {
		return nil, err
	}
	cost, err := downtime.Breakdown(out.org.UserHourlyCost, out.org.ITHourlyCost, out.org.IssueFrequency, out.org.IssueDurationMinutes)
	if err != nil {
		return nil, err
	}
	out.input, out.downtime = in, &cost
	return out, nil
}

// override applies the flags the user set explicitly.
func (f *inputFlags) override(cmd *cobra.Command, org *types.OrganizationProfile) error {
	fl := cmd.Flags()
	if fl.Changed("users") {
		org.UserCount = f.users
	}
	if fl.Changed("services") {
		org.CriticalServices = f.services
	}

	decimals := []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"user-cost", f.userCost, &org.UserHourlyCost},
		{"it-cost", f.itCost, &org.ITHourlyCost},
		{"frequency", f.frequency, &org.IssueFrequency},
		{"duration", f.duration, &org.IssueDurationMinutes},
	}
	for _, d := range decimals {
		if !fl.Changed(d.flag) {
			continue
		}
		v, err := parseDecimal(d.flag, d.raw)
		if err != nil {
			return err
		}
		*d.dst = v
	}

	if fl.Changed("impact") {
		v, err := parseDecimal("impact", f.impact)
		if err != nil {
			return err
		}
		org.DowntimeImpact = &v
	}
	return nil
}

func pick(file *profile.File, name string) (profile.Profile, error) {
	if name != "" {
		return file.Get(name)
	}
	return file.Default()
}

func parseDecimal(flag, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Inputf("--%s must be a number, got %q", flag, raw).WithContext("flag", flag)
	}
	return v, nil
}
