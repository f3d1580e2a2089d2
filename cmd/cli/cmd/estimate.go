// Package cmd - estimate command
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pingplotter-roi/core/output"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/config"
	"pingplotter-roi/internal/logging"
)

var (
	estimateInputs inputFlags
	outputFormat   string
	outputFile     string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Build the coverage table and report breakeven and full rollout",
	Long: `Evaluate every coverage level from 0% to 100% and print the
deduplicated scenario table with the breakeven and full-rollout rows.

Inputs come from flags, an HCL profile file, or the configured defaults,
in that order of precedence.

Examples:
  pproi estimate
  pproi estimate --users 20 --services 2 --user-cost 200 --it-cost 111 --frequency 4 --duration 36
  pproi estimate --profile legal.hcl --format json
  pproi estimate --users 50 --services 4 --monthly-downtime 10000 --format csv -o table.csv`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	estimateInputs.register(estimateCmd)
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, html, markdown, csv, xlsx); default from config or the output file extension")
	estimateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	res, err := estimateInputs.resolve(cmd)
	if err != nil {
		return err
	}

	rep, err := roi.Evaluate(res.input, roi.WithSchedule(res.schedule))
	if err != nil {
		return err
	}
	logging.Debug("report built",
		zap.String("profile", res.name),
		logging.Scenario(res.input),
		zap.Int("rows", rep.Table.Len()),
		zap.Duration("duration", time.Since(start)),
	)

	formatter, err := output.Lookup(formatFor(outputFormat, outputFile))
	if err != nil {
		return err
	}

	if outputFile == "" {
		if formatter.Format() == output.FormatXLSX {
			return fmt.Errorf("xlsx output needs --output")
		}
		return formatter.Render(cmd.OutOrStdout(), rep)
	}

	if err := writeReport(outputFile, formatter, rep); err != nil {
		return err
	}
	console().Success("wrote %s report to %s", formatter.Format(), outputFile)
	return nil
}

// writeReport renders rep into path, reporting close errors as well as
// render errors.
func writeReport(path string, formatter output.Formatter, rep *roi.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := formatter.Render(f, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// formatFor picks the explicit format, then the output file extension, then
// the configured default.
func formatFor(explicit, file string) string {
	if explicit != "" {
		return explicit
	}
	if ext := strings.TrimPrefix(filepath.Ext(file), "."); ext != "" {
		if ext == "htm" {
			ext = "html"
		}
		if _, err := output.Lookup(ext); err == nil {
			return ext
		}
	}
	return config.Get().Output.DefaultFormat
}
