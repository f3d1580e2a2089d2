package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pingplotter-roi/core/roi"
)

var (
	primary  = lipgloss.Color("#7C3AED")
	positive = lipgloss.Color("#10B981")
	negative = lipgloss.Color("#EF4444")
	muted    = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	dimStyle   = lipgloss.NewStyle().Foreground(muted)
	goodStyle  = lipgloss.NewStyle().Foreground(positive).Bold(true)
	badStyle   = lipgloss.NewStyle().Foreground(negative)

	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	headerStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(primary)
	markStyle   = cellStyle.Foreground(positive).Bold(true)
)

// CLIFormatter prints a bordered table with the breakeven and full-rollout
// rows highlighted.
type CLIFormatter struct{}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{}
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the report to w
func (f *CLIFormatter) Render(w io.Writer, rep *roi.Report) error {
	in := rep.Input
	var b strings.Builder

	b.WriteString(titleStyle.Render("PingPlotter ROI"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d users x %d critical services, %s/mo downtime, %s%% impact",
		in.UserCount, in.CriticalServices, money(in.MonthlyDowntimeCost),
		in.DowntimeImpact.Mul(hundred).StringFixed(0))))
	b.WriteString("\n\n")

	var minTraces, maxTraces int64 = -1, -1
	if rep.MinROI != nil {
		minTraces = rep.MinROI.Traces
	}
	if rep.MaxROI != nil {
		maxTraces = rep.MaxROI.Traces
	}

	rows := rep.Table.Rows()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers(displayHeaders()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) {
				if tr := rows[row].Traces; tr == minTraces || tr == maxTraces {
					return markStyle
				}
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(displayRow(r)...)
	}
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	for i, line := range summaryLines(rep) {
		style := goodStyle
		if (i == 0 && rep.MaxROI == nil) || (i == 1 && rep.MinROI == nil) {
			style = badStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
