//-------------------------------------------------------------------------
//
// Retail Reports
//
// Copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/quantabyte/retail-reports/internal/reports"
)

// renderOutcomes writes each report's result in the requested format,
// either to w or, when outputDir is set, to one file per report.
// Failed reports are rendered as a one-line error so a partial batch
// still produces complete output.
func renderOutcomes(w io.Writer, outcomes map[string]reports.Outcome,
	format, outputDir string) error {

	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, name := range names {
		outcome := outcomes[name]

		if outcome.Err != nil {
			fmt.Fprintf(w, "report %s failed: %v\n", name, outcome.Err)
			continue
		}

		rendered, err := renderResult(outcome.Result, format)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}

		if outputDir == "" {
			if _, err := w.Write(rendered); err != nil {
				return err
			}
			continue
		}

		path := filepath.Join(outputDir, name+"."+fileExtension(format))
		if err := os.WriteFile(path, rendered, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return nil
}

func renderResult(res *reports.Result, format string) ([]byte, error) {
	switch format {
	case "csv":
		return renderCSV(res)
	case "json":
		return renderJSON(res)
	default:
		return renderTable(res), nil
	}
}

func renderTable(res *reports.Result) []byte {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "== %s ==\n", res.Report)

	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	if res.SkippedRows > 0 {
		fmt.Fprintf(buf, "(%d rows skipped: unparseable date components)\n", res.SkippedRows)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func renderCSV(res *reports.Result) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(res.Columns); err != nil {
		return nil, err
	}
	for _, row := range res.Rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJSON(res *reports.Result) ([]byte, error) {
	payload := struct {
		Report      string     `json:"report"`
		Columns     []string   `json:"columns"`
		Rows        [][]string `json:"rows"`
		SkippedRows int        `json:"skipped_rows,omitempty"`
	}{
		Report:      res.Report,
		Columns:     res.Columns,
		Rows:        res.Rows,
		SkippedRows: res.SkippedRows,
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func fileExtension(format string) string {
	switch format {
	case "csv":
		return "csv"
	case "json":
		return "json"
	default:
		return "txt"
	}
}
