package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pingplotter-roi/core/chart"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/config"
)

var (
	chartInputs inputFlags
	chartDir    string
	chartFormat string
	chartWidth  int
	chartHeight int
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the ROI and breakeven charts",
	Long: `Render the two report charts as roi.<format> and breakeven.<format>.

The ROI chart plots tool cost against the downtime it removes; the breakeven
chart plots downtime before and after the tool, with dashed lines at the
breakeven trace count.`,
	Args: cobra.NoArgs,
	RunE: runCharts,
}

func init() {
	chartInputs.register(chartsCmd)
	chartsCmd.Flags().StringVarP(&chartDir, "dir", "d", "", "output directory (default from config)")
	chartsCmd.Flags().StringVar(&chartFormat, "image", "", "image format: png or svg (default from config)")
	chartsCmd.Flags().IntVar(&chartWidth, "width", 0, "image width in pixels")
	chartsCmd.Flags().IntVar(&chartHeight, "height", 0, "image height in pixels")

	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	dir := firstNonEmpty(chartDir, cfg.Output.Directory, ".")
	format, err := chart.ParseFormat(firstNonEmpty(chartFormat, cfg.Chart.Format))
	if err != nil {
		return err
	}
	opts := chart.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height}
	if chartWidth > 0 {
		opts.Width = chartWidth
	}
	if chartHeight > 0 {
		opts.Height = chartHeight
	}

	res, err := chartInputs.resolve(cmd)
	if err != nil {
		return err
	}
	rep, err := roi.Evaluate(res.input, roi.WithSchedule(res.schedule))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	w := console()
	for _, name := range []string{roi.ChartROI, roi.ChartBreakeven} {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", name, format))
		if err := writeChart(path, rep, name, format, opts); err != nil {
			return err
		}
		data, _ := rep.Chart(name)
		w.Success("%s: %s", path, data.Title)
	}
	return nil
}

func writeChart(path string, rep *roi.Report, name string, format chart.Format, opts chart.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chart.RenderReport(f, rep, name, format, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
