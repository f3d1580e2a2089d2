package roi

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinROIFindsBreakeven(t *testing.T) {
	table := mustBuild(t, legalInput(t))

	row, ok := MinROI(table)
	if !ok {
		t.Fatal("expected a breakeven row")
	}
	if row.Traces != 26 {
		t.Errorf("expected breakeven at 26 traces, got %d", row.Traces)
	}
	if !row.ToolCost.Equal(dec("234")) {
		t.Errorf("expected tool cost 234, got %s", row.ToolCost)
	}
	if !row.ROI.IsPositive() {
		t.Errorf("breakeven row must have positive roi, got %s", row.ROI)
	}

	for _, r := range table.Rows() {
		if r.Traces >= row.Traces {
			break
		}
		if r.ROI.IsPositive() {
			t.Fatalf("row at %d traces is positive before breakeven", r.Traces)
		}
	}
}

func TestMinROIAllNegative(t *testing.T) {
	table := mustBuild(t, mustInput(t, 50, 4, "10000", "0"))

	if _, ok := MinROI(table); ok {
		t.Error("expected no breakeven row when every roi is negative")
	}
	if _, ok := MaxROI(table); ok {
		t.Error("expected no max row when the full rollout loses money")
	}
}

func TestMaxROIReturnsLargestTraceCount(t *testing.T) {
	table := mustBuild(t, legalInput(t))

	row, ok := MaxROI(table)
	if !ok {
		t.Fatal("expected a max roi row")
	}
	if row.Traces != 40 {
		t.Errorf("expected max row at 40 traces, got %d", row.Traces)
	}
}

func TestMaxROIIgnoresHigherEarlierROI(t *testing.T) {
	table := &Table{rows: []Row{
		{Traces: 1, ROI: decimal.NewFromInt(5), roiDefined: true},
		{Traces: 2, ROI: decimal.NewFromFloat(0.1), roiDefined: true},
	}}

	row, ok := MaxROI(table)
	if !ok {
		t.Fatal("expected a max roi row")
	}
	if row.Traces != 2 {
		t.Errorf("expected the row at 2 traces, got %d", row.Traces)
	}
}

func TestMaxROINegativeAtFullRollout(t *testing.T) {
	table := &Table{rows: []Row{
		{Traces: 1, ROI: decimal.NewFromInt(1), roiDefined: true},
		{Traces: 2, ROI: decimal.NewFromFloat(-0.2), roiDefined: true},
	}}

	if _, ok := MaxROI(table); ok {
		t.Error("expected absence when the last row's roi is negative")
	}
	if row, ok := MinROI(table); !ok || row.Traces != 1 {
		t.Errorf("expected breakeven at 1 trace, got %v %v", row.Traces, ok)
	}
}

func TestQueriesOnEmptyTable(t *testing.T) {
	empty := &Table{}
	if _, ok := MinROI(empty); ok {
		t.Error("MinROI on empty table must report absence")
	}
	if _, ok := MaxROI(empty); ok {
		t.Error("MaxROI on empty table must report absence")
	}
	if _, ok := MaxROI(nil); ok {
		t.Error("MaxROI on nil table must report absence")
	}
}
