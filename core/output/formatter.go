// Package output renders ROI reports for humans and machines.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatHTML is a standalone HTML report
	FormatHTML Format = "html"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatCSV is the raw table as comma separated values
	FormatCSV Format = "csv"

	// FormatXLSX is an Excel workbook
	FormatXLSX Format = "xlsx"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report to w
	Render(w io.Writer, report *roi.Report) error
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// Register adds a formatter. Registering a format twice is an error.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeInternal, "formatter %s already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// Formats lists registered formats in name order
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, f := range []Formatter{
		NewCLIFormatter(),
		NewJSONFormatter(),
		NewHTMLFormatter(),
		NewMarkdownFormatter(),
		NewCSVFormatter(),
		NewXLSXFormatter(),
	} {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}()

// Default returns the registry holding every built-in formatter
func Default() *Registry {
	return defaultRegistry
}

// Lookup resolves a format name against the default registry.
func Lookup(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if format == "md" {
		format = FormatMarkdown
	}
	f, ok := defaultRegistry.Get(format)
	if !ok {
		return nil, errors.NotSupported(fmt.Sprintf("output format %q", name))
	}
	return f, nil
}

// Render writes report to w using the named format.
func Render(w io.Writer, name string, report *roi.Report) error {
	f, err := Lookup(name)
	if err != nil {
		return err
	}
	return f.Render(w, report)
}

// Column headers for display formats
var headers = map[roi.Column]string{
	roi.ColumnTraces:           "Traces",
	roi.ColumnCoverage:         "Coverage",
	roi.ColumnToolCost:         "Tool Cost",
	roi.ColumnCostPerTrace:     "Cost/Trace",
	roi.ColumnDowntimeCost:     "Downtime Cost",
	roi.ColumnDowntimeImpact:   "Downtime Impact",
	roi.ColumnAdjustedDowntime: "Adjusted Downtime",
	roi.ColumnROI:              "ROI",
}

func header(c roi.Column) string {
	if h, ok := headers[c]; ok {
		return h
	}
	return string(c)
}

var hundred = decimal.NewFromInt(100)

// displayCell formats a column for people: money with two decimals,
// coverage and ROI as percentages.
func displayCell(r roi.Row, c roi.Column) string {
	switch c {
	case roi.ColumnTraces:
		return fmt.Sprintf("%d", r.Traces)
	case roi.ColumnCostPerTrace:
		return fmt.Sprintf("$%d", r.CostPerTrace)
	case roi.ColumnCoverage:
		return r.Coverage.Mul(hundred).StringFixed(0) + "%"
	case roi.ColumnROI:
		return r.ROI.Mul(hundred).StringFixed(1) + "%"
	default:
		return money(r.Value(c))
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// rawCell formats a column as its exact decimal value.
func rawCell(r roi.Row, c roi.Column) string {
	return r.Value(c).String()
}

func displayRow(r roi.Row) []string {
	cols := roi.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = displayCell(r, c)
	}
	return out
}

func displayHeaders() []string {
	cols := roi.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = header(c)
	}
	return out
}

// summaryLines are the headline findings shared by the text formats.
func summaryLines(rep *roi.Report) []string {
	lines := []string{rep.ROIChart.Title, rep.BreakevenChart.Title}
	if rep.MaxROI != nil {
		lines = append(lines, fmt.Sprintf("Full rollout: %d traces at %s/mo, ROI %s",
			rep.MaxROI.Traces, money(rep.MaxROI.ToolCost), displayCell(*rep.MaxROI, roi.ColumnROI)))
	}
	return lines
}
