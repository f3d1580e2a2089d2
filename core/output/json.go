package output

import (
	"encoding/json"
	"io"

	"pingplotter-roi/core/roi"
)

// JSONFormatter writes the full report, including chart data, as JSON.
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSON formatter with two-space indentation
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

// Format returns the format type
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the report to w
func (f *JSONFormatter) Render(w io.Writer, rep *roi.Report) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(rep)
}
