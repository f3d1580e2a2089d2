package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"

	"pingplotter-roi/internal/errors"
)

var legalFlags = []string{
	"--users", "20",
	"--services", "2",
	"--user-cost", "200",
	"--it-cost", "111",
	"--frequency", "4",
	"--duration", "36",
}

// execute runs the CLI with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("output %q does not contain %s", out, Version)
	}
}

func TestEstimateCSV(t *testing.T) {
	out, err := execute(t, append([]string{"estimate", "--format", "csv"}, legalFlags...)...)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	last := records[len(records)-1]
	if last[0] != "40" || last[2] != "360" || last[5] != "373.2" {
		t.Errorf("unexpected full rollout row: %v", last)
	}
}

func TestEstimateMonthlyDowntime(t *testing.T) {
	out, err := execute(t, "estimate", "--format", "json",
		"--users", "20", "--services", "2", "--monthly-downtime", "746.4")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	var rep struct {
		Input struct {
			MonthlyDowntimeCost string `json:"monthly_downtime_cost"`
		} `json:"input"`
		MinROI struct {
			Traces int64 `json:"traces"`
		} `json:"min_roi"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Input.MonthlyDowntimeCost != "746.4" {
		t.Errorf("monthly downtime = %s, want 746.4", rep.Input.MonthlyDowntimeCost)
	}
	if rep.MinROI.Traces != 26 {
		t.Errorf("breakeven traces = %d, want 26", rep.MinROI.Traces)
	}
}

func TestEstimateProfileFile(t *testing.T) {
	path := filepath.Join("..", "..", "..", "core", "profile", "testdata", "legal.hcl")
	out, err := execute(t, "estimate", "--format", "markdown", "--profile", path)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !strings.Contains(out, "Positive ROI begins at 26 traces") {
		t.Errorf("markdown output missing breakeven title:\n%s", out)
	}
}

func TestEstimateXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if _, err := execute(t, append([]string{"estimate", "-o", path}, legalFlags...)...); err != nil {
		t.Fatalf("estimate: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 2 {
		t.Errorf("sheets = %v, want 2", got)
	}
}

func TestEstimateXLSXNeedsOutput(t *testing.T) {
	if _, err := execute(t, "estimate", "--format", "xlsx"); err == nil {
		t.Error("expected an error for xlsx on stdout")
	}
}

func TestEstimateUnwritableOutput(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	out, err := execute(t, append([]string{"estimate", "--format", "json", "-o", "/dev/full"}, legalFlags...)...)
	if err == nil {
		t.Fatal("expected an error writing to a full device")
	}
	if strings.Contains(out, "wrote") {
		t.Errorf("reported success after a failed write: %q", out)
	}
}

func TestEstimateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errors.Type
	}{
		{"bad number", []string{"estimate", "--user-cost", "abc"}, errors.TypeInput},
		{"negative users", []string{"estimate", "--users=-3"}, errors.TypeInput},
		{"unknown format", []string{"estimate", "--format", "pdf"}, errors.TypeNotSupported},
		{"missing profile", []string{"estimate", "--profile", "nope.hcl"}, errors.TypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.TypeOf(err); got != tt.want {
				t.Errorf("error type = %s, want %s (%v)", got, tt.want, err)
			}
		})
	}
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, append([]string{"charts", "--dir", dir, "--image", "svg"}, legalFlags...)...); err != nil {
		t.Fatalf("charts: %v", err)
	}
	for _, name := range []string{"roi.svg", "breakeven.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Errorf("%s is not an SVG", name)
		}
	}
}

func TestCompareJSON(t *testing.T) {
	path := filepath.Join("..", "..", "..", "core", "profile", "testdata", "offices.hcl")
	out, err := execute(t, "compare", "--json", path)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	var summaries []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// offices.hcl declares default before clinic
	if len(summaries) != 2 || summaries[0].Name != "default" || summaries[1].Name != "clinic" {
		t.Errorf("summaries not in file order: %+v", summaries)
	}

	out, err = execute(t, "compare", "--json", path, "clinic", "default")
	if err != nil {
		t.Fatalf("compare by name: %v", err)
	}
	summaries = nil
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Name != "clinic" || summaries[1].Name != "default" {
		t.Errorf("summaries not in argument order: %+v", summaries)
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		explicit string
		file     string
		want     string
	}{
		{"json", "out.csv", "json"},
		{"", "out.csv", "csv"},
		{"", "page.htm", "html"},
		{"", "notes.md", "md"},
		{"", "out.bin", "cli"},
		{"", "", "cli"},
	}
	for _, tt := range tests {
		if got := formatFor(tt.explicit, tt.file); got != tt.want {
			t.Errorf("formatFor(%q, %q) = %q, want %q", tt.explicit, tt.file, got, tt.want)
		}
	}
}
