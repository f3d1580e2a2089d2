package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var downtimeInputs inputFlags

var downtimeCmd = &cobra.Command{
	Use:   "downtime",
	Short: "Show the monthly downtime cost of an organization",
	Long: `Break the monthly downtime cost into its hourly and per-issue parts:

  hourly    = user cost + IT cost
  per issue = hourly x duration / 60
  monthly   = per issue x frequency`,
	Args: cobra.NoArgs,
	RunE: runDowntime,
}

func init() {
	downtimeInputs.register(downtimeCmd)
	rootCmd.AddCommand(downtimeCmd)
}

func runDowntime(cmd *cobra.Command, args []string) error {
	res, err := downtimeInputs.resolve(cmd)
	if err != nil {
		return err
	}

	w := console()
	s := w.NewSummary("Downtime cost: " + res.name)
	if res.downtime != nil {
		s.Add("Hourly cost", "$"+res.downtime.Hourly.StringFixed(2))
		s.Add("Cost per issue", "$"+res.downtime.PerIssue.StringFixed(2))
	}
	s.Add("Monthly downtime", "$"+res.input.MonthlyDowntimeCost.StringFixed(2))
	s.Add("Removable at full coverage", "$"+res.input.MonthlyDowntimeCost.Mul(res.input.DowntimeImpact).StringFixed(2))
	s.Add("Paths to monitor", decimal.NewFromInt(res.input.MaxTraces()).String())
	s.Render()
	return nil
}
