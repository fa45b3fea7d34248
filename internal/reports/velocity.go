//-------------------------------------------------------------------------
//
// Retail Reports
//
// Copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// dim_date_times stores a sale instant as separate textual components.
// They are concatenated back into "year-month-day time" and parsed here;
// the layouts accept both zero-padded and unpadded components.
var saleInstantLayouts = []string{
	"2006-1-2 15:4:5",
	"2006-1-2 15:4:5.999999",
}

// parseSaleInstant reconstructs a sale timestamp from its stored
// components. A failure is a ParseError; the caller excludes the row and
// counts it as skipped.
func parseSaleInstant(year, month, day, timestamp string) (time.Time, error) {
	composed := fmt.Sprintf("%s-%s-%s %s", year, month, day, timestamp)
	var lastErr error
	for _, layout := range saleInstantLayouts {
		t, err := time.Parse(layout, composed)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &ParseError{Value: composed, Err: lastErr}
}

// YearVelocity is one row of the sales_velocity report.
type YearVelocity struct {
	Year          int
	Sales         int64
	AvgGapSeconds float64
}

// averageGaps computes, per year, the mean gap between chronologically
// consecutive sales. The final sale of a year has no successor and
// contributes no gap; years with fewer than two sales produce no row.
// Rows are ordered by average gap descending (year ascending on ties)
// and truncated to topN, so the years where sales are sparsest come first.
func averageGaps(instants map[int][]time.Time, topN int) []YearVelocity {
	out := make([]YearVelocity, 0, len(instants))
	for year, times := range instants {
		if len(times) < 2 {
			continue
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		var total time.Duration
		for i := 1; i < len(times); i++ {
			total += times[i].Sub(times[i-1])
		}
		avg := total.Seconds() / float64(len(times)-1)

		out = append(out, YearVelocity{
			Year:          year,
			Sales:         int64(len(times)),
			AvgGapSeconds: Round2(avg),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgGapSeconds != out[j].AvgGapSeconds {
			return out[i].AvgGapSeconds > out[j].AvgGapSeconds
		}
		return out[i].Year < out[j].Year
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// SaleIntervals reconstructs each sale's timestamp and reports the
// average time between consecutive sales per year, sparsest years first.
// Rows whose components cannot be parsed are excluded; the skip count is
// returned alongside the rows.
func SaleIntervals(ctx context.Context, db DB, topN int) ([]YearVelocity, int, error) {
	rows, err := db.Query(ctx, `
        SELECT d.year, d.month, d.day, d."timestamp"
        FROM orders_table o
        JOIN dim_date_times d ON o.date_uuid = d.date_uuid
    `)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	instants := make(map[int][]time.Time)
	skipped := 0
	for rows.Next() {
		var year, month, day, timestamp string
		if err := rows.Scan(&year, &month, &day, &timestamp); err != nil {
			return nil, 0, classify(err)
		}

		t, err := parseSaleInstant(year, month, day, timestamp)
		if err != nil {
			skipped++
			continue
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			skipped++
			continue
		}
		instants[y] = append(instants[y], t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err)
	}

	return averageGaps(instants, topN), skipped, nil
}

type salesVelocityReport struct{}

func (salesVelocityReport) Name() string { return "sales_velocity" }

// The business question is phrased "how quickly does the company make
// sales", but the ordering deliberately surfaces the years with the
// LARGEST average gap first, matching the warehouse's historical report.
func (salesVelocityReport) Description() string {
	return "Average time between sales per year; years with the slowest sales cadence first"
}

func (salesVelocityReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	years, skipped, err := SaleIntervals(ctx, db, 5)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:      "sales_velocity",
		Columns:     []string{"year", "sales", "avg_gap_seconds"},
		SkippedRows: skipped,
	}
	for _, y := range years {
		res.Rows = append(res.Rows, []string{
			strconv.Itoa(y.Year),
			strconv.FormatInt(y.Sales, 10),
			FormatAmount(y.AvgGapSeconds),
		})
	}
	return res, nil
}

func init() {
	Register(salesVelocityReport{})
}
