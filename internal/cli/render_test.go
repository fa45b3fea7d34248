package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantabyte/retail-reports/internal/reports"
)

func sampleResult() *reports.Result {
	return &reports.Result{
		Report:  "stores_by_country",
		Columns: []string{"country", "total_no_stores"},
		Rows: [][]string{
			{"GB", "265"},
			{"DE", "141"},
		},
	}
}

func TestRenderTable(t *testing.T) {
	out := string(renderTable(sampleResult()))

	if !strings.Contains(out, "== stores_by_country ==") {
		t.Errorf("missing report header:\n%s", out)
	}
	for _, cell := range []string{"country", "total_no_stores", "GB", "265", "DE", "141"} {
		if !strings.Contains(out, cell) {
			t.Errorf("missing %q:\n%s", cell, out)
		}
	}

	// GB row renders above DE, preserving report order.
	if strings.Index(out, "GB") > strings.Index(out, "DE") {
		t.Errorf("row order not preserved:\n%s", out)
	}
}

func TestRenderTableSkippedNote(t *testing.T) {
	res := sampleResult()
	res.SkippedRows = 3

	out := string(renderTable(res))
	if !strings.Contains(out, "3 rows skipped") {
		t.Errorf("missing skipped-rows note:\n%s", out)
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := renderCSV(sampleResult())
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}

	want := "country,total_no_stores\nGB,265\nDE,141\n"
	if string(out) != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := renderJSON(sampleResult())
	if err != nil {
		t.Fatalf("renderJSON: %v", err)
	}

	var decoded struct {
		Report  string     `json:"report"`
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if decoded.Report != "stores_by_country" {
		t.Errorf("report = %q", decoded.Report)
	}
	if len(decoded.Rows) != 2 || decoded.Rows[0][0] != "GB" {
		t.Errorf("rows = %v", decoded.Rows)
	}
}

func TestRenderOutcomesFailureLine(t *testing.T) {
	outcomes := map[string]reports.Outcome{
		"stores_by_country": {Result: sampleResult()},
		"sales_velocity":    {Err: errors.New("connection reset")},
	}

	buf := &bytes.Buffer{}
	if err := renderOutcomes(buf, outcomes, "table", ""); err != nil {
		t.Fatalf("renderOutcomes: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "report sales_velocity failed: connection reset") {
		t.Errorf("missing failure line:\n%s", out)
	}
	if !strings.Contains(out, "== stores_by_country ==") {
		t.Errorf("successful report not rendered alongside the failure:\n%s", out)
	}
	// Reports render in name order.
	if strings.Index(out, "sales_velocity") > strings.Index(out, "stores_by_country") {
		t.Errorf("reports not rendered in name order:\n%s", out)
	}
}

func TestRenderOutcomesToDirectory(t *testing.T) {
	dir := t.TempDir()
	outcomes := map[string]reports.Outcome{
		"stores_by_country": {Result: sampleResult()},
	}

	buf := &bytes.Buffer{}
	if err := renderOutcomes(buf, outcomes, "csv", filepath.Join(dir, "out")); err != nil {
		t.Fatalf("renderOutcomes: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "stores_by_country.csv"))
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "GB,265") {
		t.Errorf("file content:\n%s", data)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote to stdout despite output directory: %q", buf.String())
	}
}

func TestFileExtension(t *testing.T) {
	tests := []struct{ format, want string }{
		{"csv", "csv"},
		{"json", "json"},
		{"table", "txt"},
	}
	for _, tt := range tests {
		if got := fileExtension(tt.format); got != tt.want {
			t.Errorf("fileExtension(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
