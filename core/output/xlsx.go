package output

import (
	"io"

	"github.com/xuri/excelize/v2"

	"pingplotter-roi/core/roi"
	"pingplotter-roi/internal/errors"
)

const (
	SheetSummary   = "Summary"
	SheetScenarios = "Scenarios"
)

// XLSXFormatter writes a workbook with a summary sheet and the full scenario
// table as numbers.
type XLSXFormatter struct{}

// NewXLSXFormatter creates an Excel formatter
func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

// Format returns the format type
func (f *XLSXFormatter) Format() Format {
	return FormatXLSX
}

// Render writes the report to w
func (f *XLSXFormatter) Render(w io.Writer, rep *roi.Report) error {
	xl := excelize.NewFile()
	defer xl.Close()

	if err := writeSummarySheet(xl, rep); err != nil {
		return errors.Render("failed to write summary sheet", err)
	}
	if err := writeScenarioSheet(xl, rep); err != nil {
		return errors.Render("failed to write scenario sheet", err)
	}
	if err := xl.DeleteSheet("Sheet1"); err != nil {
		return errors.Render("failed to drop default sheet", err)
	}

	if idx, err := xl.GetSheetIndex(SheetSummary); err == nil {
		xl.SetActiveSheet(idx)
	}
	if _, err := xl.WriteTo(w); err != nil {
		return errors.Render("failed to write workbook", err)
	}
	return nil
}

func writeSummarySheet(xl *excelize.File, rep *roi.Report) error {
	if _, err := xl.NewSheet(SheetSummary); err != nil {
		return err
	}
	in := rep.Input
	rows := [][]interface{}{
		{"User Count", in.UserCount},
		{"Critical Services", in.CriticalServices},
		{"Monthly Downtime Cost", in.MonthlyDowntimeCost.InexactFloat64()},
		{"Downtime Impact", in.DowntimeImpact.InexactFloat64()},
		{},
		{"ROI", rep.ROIChart.Title},
		{"Breakeven", rep.BreakevenChart.Title},
	}
	if rep.MinROI != nil {
		rows = append(rows, []interface{}{"Breakeven Traces", rep.MinROI.Traces})
	}
	if rep.MaxROI != nil {
		rows = append(rows, []interface{}{"Full Rollout Traces", rep.MaxROI.Traces})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return xl.SetColWidth(SheetSummary, "A", "A", 24)
}

func writeScenarioSheet(xl *excelize.File, rep *roi.Report) error {
	if _, err := xl.NewSheet(SheetScenarios); err != nil {
		return err
	}
	cols := roi.Columns()

	head := make([]interface{}, len(cols))
	for i, c := range cols {
		head[i] = string(c)
	}
	if err := xl.SetSheetRow(SheetScenarios, "A1", &head); err != nil {
		return err
	}

	bold, err := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := xl.SetCellStyle(SheetScenarios, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rep.Table.Rows() {
		vals := make([]interface{}, len(cols))
		for j, c := range cols {
			if c == roi.ColumnTraces || c == roi.ColumnCostPerTrace {
				vals[j] = r.Value(c).IntPart()
			} else {
				vals[j] = r.Float(c)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(SheetScenarios, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}
