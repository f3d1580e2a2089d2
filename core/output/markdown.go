package output

import (
	"fmt"
	"io"
	"strings"

	"pingplotter-roi/core/roi"
)

// MarkdownFormatter writes a markdown report suitable for tickets and PRs.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the report to w
func (f *MarkdownFormatter) Render(w io.Writer, rep *roi.Report) error {
	var sb strings.Builder
	in := rep.Input

	sb.WriteString("## PingPlotter ROI\n\n")
	fmt.Fprintf(&sb, "| Users | Critical Services | Monthly Downtime | Impact |\n")
	fmt.Fprintf(&sb, "|------:|------------------:|-----------------:|-------:|\n")
	fmt.Fprintf(&sb, "| %d | %d | %s | %s%% |\n\n",
		in.UserCount, in.CriticalServices, money(in.MonthlyDowntimeCost),
		in.DowntimeImpact.Mul(hundred).StringFixed(0))

	for _, line := range summaryLines(rep) {
		fmt.Fprintf(&sb, "- **%s**\n", line)
	}
	sb.WriteString("\n")

	heads := displayHeaders()
	sb.WriteString("| " + strings.Join(heads, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---:|", len(heads)) + "\n")
	for _, r := range rep.Table.Rows() {
		cells := displayRow(r)
		if rep.MinROI != nil && r.Traces == rep.MinROI.Traces {
			cells[0] = "**" + cells[0] + "**"
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
