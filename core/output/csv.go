package output

import (
	"encoding/csv"
	"io"

	"pingplotter-roi/core/roi"
)

// CSVFormatter dumps the scenario table with exact values and the column
// names as header.
type CSVFormatter struct{}

// NewCSVFormatter creates a CSV formatter
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format returns the format type
func (f *CSVFormatter) Format() Format {
	return FormatCSV
}

// Render writes the report to w
func (f *CSVFormatter) Render(w io.Writer, rep *roi.Report) error {
	cols := roi.Columns()
	cw := csv.NewWriter(w)

	head := make([]string, len(cols))
	for i, c := range cols {
		head[i] = string(c)
	}
	if err := cw.Write(head); err != nil {
		return err
	}

	for _, r := range rep.Table.Rows() {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = rawCell(r, c)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
