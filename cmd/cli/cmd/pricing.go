// Package cmd - CLI for the per-trace price schedule
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/profile"
	"pingplotter-roi/internal/config"
	"pingplotter-roi/internal/errors"
)

var pricingFile string

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Inspect the per-trace price schedule",
	Long: `Inspect the per-trace price schedule.

Pricing is volume based: the tier that holds the total trace count sets the
price of every trace. The schedule comes from --file, the configured profile
file, or the published price list.`,
}

var pricingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the price tiers",
	Args:  cobra.NoArgs,
	RunE:  runPricingShow,
}

var pricingQuoteCmd = &cobra.Command{
	Use:   "quote <traces>",
	Short: "Price a trace count",
	Args:  cobra.ExactArgs(1),
	RunE:  runPricingQuote,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	pricingCmd.AddCommand(pricingShowCmd)
	pricingCmd.AddCommand(pricingQuoteCmd)

	pricingCmd.PersistentFlags().StringVar(&pricingFile, "file", "", "HCL file with a pricing block")
}

// loadSchedule resolves the schedule in flag, config, default order.
func loadSchedule() (pricing.Schedule, error) {
	path := firstNonEmpty(pricingFile, config.Get().Pricing.ProfileFile)
	if path == "" {
		return pricing.DefaultSchedule(), nil
	}
	file, err := profile.Load(path)
	if err != nil {
		return pricing.Schedule{}, err
	}
	return file.Schedule(), nil
}

func runPricingShow(cmd *cobra.Command, args []string) error {
	schedule, err := loadSchedule()
	if err != nil {
		return err
	}

	w := console()
	tbl := w.NewTable("Traces", "Price per trace")
	var from int64 = 1
	for _, t := range schedule.Tiers {
		span := fmt.Sprintf("%d+", from)
		if !t.Unlimited() {
			span = fmt.Sprintf("%d-%d", from, t.UpTo)
			from = t.UpTo + 1
		}
		tbl.AddRow(span, fmt.Sprintf("$%d/mo", t.Rate))
	}
	tbl.Render()
	return nil
}

func runPricingQuote(cmd *cobra.Command, args []string) error {
	traces, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Inputf("traces must be a whole number, got %q", args[0])
	}

	schedule, err := loadSchedule()
	if err != nil {
		return err
	}
	rate, err := schedule.PricePerTrace(traces)
	if err != nil {
		return err
	}
	cost, err := schedule.ToolCost(traces)
	if err != nil {
		return err
	}

	s := console().NewSummary(fmt.Sprintf("Quote for %d traces", traces))
	s.Add("Price per trace", fmt.Sprintf("$%d/mo", rate))
	s.Add("Monthly cost", "$"+cost.StringFixed(2))
	s.Render()
	return nil
}
