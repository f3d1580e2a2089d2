package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterVerbosity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Debug("hidden")
	w.Info("shown")
	w.SetVerbosity(0)
	w.Info("quiet")
	w.Warning("always %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") || strings.Contains(out, "quiet") {
		t.Errorf("messages above verbosity leaked: %q", out)
	}
	if !strings.Contains(out, "ℹ shown") || !strings.Contains(out, "⚠ always 1") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	tbl := w.NewTable("Name", "Traces")
	tbl.AddRow("legal", "26")
	tbl.AddRow("clinic")
	tbl.Render()

	out := buf.String()
	for _, want := range []string{"Name", "Traces", "legal", "26", "clinic"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if tbl.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", tbl.Len())
	}
}

func TestSummaryRender(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	s := w.NewSummary("Downtime")
	s.Add("Hourly", "$311.00")
	s.AddStatus("ROI", "3.7%", true)
	s.Render()

	out := buf.String()
	if !strings.Contains(out, "Downtime") || !strings.Contains(out, "$311.00") || !strings.Contains(out, "3.7%") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}
