package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pingplotter-roi/core/profile"
	"pingplotter-roi/core/roi"
)

var (
	compareJSON bool
	hundred     = decimal.NewFromInt(100)
)

var compareCmd = &cobra.Command{
	Use:   "compare <profile.hcl> [profile-name...]",
	Short: "Compare breakeven and full rollout across profiles",
	Long: `Evaluate several profiles of one HCL file side by side.

With no profile names every profile in the file is compared, in the order
the file declares them. The file's pricing block, if any, prices every
scenario.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print the summaries as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	file, err := profile.Load(args[0])
	if err != nil {
		return err
	}

	// Named profiles keep argument order; otherwise file order.
	profiles := file.Profiles
	if names := args[1:]; len(names) > 0 {
		profiles = make([]profile.Profile, 0, len(names))
		for _, name := range names {
			p, err := file.Get(name)
			if err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
	}

	scenarios := make([]roi.Scenario, 0, len(profiles))
	for _, p := range profiles {
		in, err := roi.InputFromProfile(p.Organization)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		scenarios = append(scenarios, roi.Scenario{Name: p.Name, Input: in})
	}

	summaries, err := roi.Compare(cmd.Context(), scenarios, roi.WithSchedule(file.Schedule()))
	if err != nil {
		return err
	}

	if compareJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	w := console()
	w.Header("Profiles in " + args[0])
	tbl := w.NewTable("Profile", "Max traces", "Monthly downtime", "Breakeven", "Full rollout ROI", "Savings")
	for _, s := range summaries {
		breakeven, rollout, savings := "none", "n/a", "n/a"
		if s.MinROI != nil {
			breakeven = fmt.Sprintf("%d traces, $%s/mo", s.MinROI.Traces, s.MinROI.ToolCost.StringFixed(2))
		}
		if s.MaxROI != nil {
			rollout = s.MaxROI.ROI.Mul(hundred).StringFixed(1) + "%"
			savings = "$" + s.MaxROI.DowntimeImpact.Sub(s.MaxROI.ToolCost).StringFixed(2)
		}
		tbl.AddRow(
			s.Name,
			fmt.Sprint(s.Input.MaxTraces()),
			"$"+s.Input.MonthlyDowntimeCost.StringFixed(2),
			breakeven,
			rollout,
			savings,
		)
	}
	tbl.Render()
	return nil
}
