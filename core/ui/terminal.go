// Package ui - Terminal user interface
// Styled CLI messages, tables and summary boxes.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Colors for terminal output
var (
	Primary = lipgloss.Color("#7C3AED")
	Green   = lipgloss.Color("#10B981")
	Yellow  = lipgloss.Color("#F59E0B")
	Red     = lipgloss.Color("#EF4444")
	Blue    = lipgloss.Color("#3B82F6")
	Muted   = lipgloss.Color("#6B7280")
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		noColor:   noColor,
		verbosity: 1,
	}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

// Out returns the underlying writer
func (w *Writer) Out() io.Writer {
	return w.out
}

// style returns s, or a plain style when color is off
func (w *Writer) style(s lipgloss.Style) lipgloss.Style {
	if w.noColor {
		return lipgloss.NewStyle()
	}
	return s
}

func (w *Writer) fg(c lipgloss.Color) lipgloss.Style {
	return w.style(lipgloss.NewStyle().Foreground(c))
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.style(lipgloss.NewStyle().Bold(true).Foreground(Primary)).Render("━━━ "+title+" ━━━"))
	w.Println("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.style(lipgloss.NewStyle().Bold(true)).Render("▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s%s", w.fg(Green).Render("✓ "), fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.fg(Yellow).Render("⚠ "), fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s%s", w.fg(Red).Render("✗ "), fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	w.Println("%s%s", w.fg(Blue).Render("ℹ "), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	w.Println("%s", w.fg(Muted).Render("  "+fmt.Sprintf(format, args...)))
}

// Table renders rows under headers
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	return &Table{w: w, headers: headers}
}

// AddRow adds a row, padding or truncating it to the header count
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render prints the table
func (t *Table) Render() {
	head := t.w.style(lipgloss.NewStyle().Bold(true).Foreground(Primary)).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.w.fg(Muted)).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		})
	t.w.Println("%s", tbl.Render())
}

// Summary renders a boxed set of key figures
type Summary struct {
	w     *Writer
	Title string
	lines []summaryLine
}

type summaryLine struct {
	label string
	value string
	good  *bool
}

// NewSummary creates a summary box
func (w *Writer) NewSummary(title string) *Summary {
	return &Summary{w: w, Title: title}
}

// Add appends a neutral line
func (s *Summary) Add(label, value string) {
	s.lines = append(s.lines, summaryLine{label: label, value: value})
}

// AddStatus appends a line colored green when good, red otherwise
func (s *Summary) AddStatus(label, value string, good bool) {
	s.lines = append(s.lines, summaryLine{label: label, value: value, good: &good})
}

// Render prints the summary
func (s *Summary) Render() {
	width := 0
	for _, l := range s.lines {
		width = max(width, len(l.label))
	}

	var b strings.Builder
	b.WriteString(s.w.style(lipgloss.NewStyle().Bold(true)).Render(s.Title))
	for _, l := range s.lines {
		b.WriteString("\n")
		value := l.value
		switch {
		case l.good == nil:
		case *l.good:
			value = s.w.fg(Green).Render(value)
		default:
			value = s.w.fg(Red).Render(value)
		}
		b.WriteString(fmt.Sprintf("%-*s  %s", width, l.label, value))
	}

	box := s.w.style(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted)).
		Padding(0, 2)
	s.w.Println("%s", box.Render(b.String()))
}
