package roi

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReportTitles(t *testing.T) {
	rep, err := Evaluate(legalInput(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if rep.ROIChart.Title != "Max ROI saves $373 in monthly downtime" {
		t.Errorf("unexpected roi title: %q", rep.ROIChart.Title)
	}
	if rep.BreakevenChart.Title != "Positive ROI begins at 26 traces for $234/mo" {
		t.Errorf("unexpected breakeven title: %q", rep.BreakevenChart.Title)
	}
	if rep.MinROI == nil || rep.MaxROI == nil {
		t.Fatal("expected both summary rows")
	}
}

func TestReportChartSeries(t *testing.T) {
	rep, err := Evaluate(legalInput(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	tests := []struct {
		chart   ChartData
		columns []Column
	}{
		{rep.ROIChart, []Column{ColumnToolCost, ColumnDowntimeImpact}},
		{rep.BreakevenChart, []Column{ColumnDowntimeCost, ColumnAdjustedDowntime}},
	}
	for _, tt := range tests {
		if len(tt.chart.Series) != len(tt.columns) {
			t.Fatalf("%s: expected %d series, got %d", tt.chart.Name, len(tt.columns), len(tt.chart.Series))
		}
		for i, s := range tt.chart.Series {
			if s.Column != tt.columns[i] {
				t.Errorf("%s: series %d is %s, want %s", tt.chart.Name, i, s.Column, tt.columns[i])
			}
			if len(s.X) != rep.Table.Len() || len(s.Y) != rep.Table.Len() {
				t.Errorf("%s: series %s has %d/%d points, want %d", tt.chart.Name, s.Name, len(s.X), len(s.Y), rep.Table.Len())
			}
		}
	}

	lines := rep.BreakevenChart.ReferenceLines
	if len(lines) != 2 {
		t.Fatalf("expected 2 breakeven reference lines, got %d", len(lines))
	}
	if lines[1].Axis != AxisX || lines[1].Value != 26 {
		t.Errorf("expected vertical line at 26 traces, got %+v", lines[1])
	}
	if lines[0].Axis != AxisY || lines[0].Value != rep.MinROI.Float(ColumnAdjustedDowntime) {
		t.Errorf("expected horizontal line at breakeven adjusted downtime, got %+v", lines[0])
	}
}

func TestReportNegativeROI(t *testing.T) {
	rep, err := Evaluate(mustInput(t, 50, 4, "10000", "0"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if rep.ROIChart.Title != "Negative ROI" {
		t.Errorf("unexpected roi title: %q", rep.ROIChart.Title)
	}
	if rep.BreakevenChart.Title != "Negative Roi" {
		t.Errorf("unexpected breakeven title: %q", rep.BreakevenChart.Title)
	}
	if len(rep.BreakevenChart.ReferenceLines) != 0 {
		t.Error("expected no reference lines without a breakeven row")
	}
	if rep.MinROI != nil || rep.MaxROI != nil {
		t.Error("expected both summary rows to be absent")
	}
}

func TestReportChartLookup(t *testing.T) {
	rep, err := Evaluate(legalInput(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if c, ok := rep.Chart("breakeven"); !ok || c.Name != ChartBreakeven {
		t.Errorf("expected breakeven chart, got %q %v", c.Name, ok)
	}
	if _, ok := rep.Chart("pie"); ok {
		t.Error("unknown chart name must not resolve")
	}
}

func TestReportJSON(t *testing.T) {
	rep, err := Evaluate(legalInput(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		MinROI *struct {
			Traces int64 `json:"traces"`
		} `json:"min_roi"`
		Table struct {
			Rows []json.RawMessage `json:"rows"`
		} `json:"table"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.MinROI == nil || decoded.MinROI.Traces != 26 {
		t.Errorf("expected min_roi at 26 traces in JSON, got %s", data)
	}
	if len(decoded.Table.Rows) != 40 {
		t.Errorf("expected 40 rows in JSON, got %d", len(decoded.Table.Rows))
	}
	if !strings.Contains(string(data), `"tool_cost":"360"`) {
		t.Error("expected decimal amounts encoded as strings")
	}
}
