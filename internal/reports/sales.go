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
	"sort"
	"strconv"
)

// monthTotal is a per-(year, month) sales total. Year and month come out
// of dim_date_times as text components and are parsed on read.
type monthTotal struct {
	Year  int
	Month int
	Total float64
}

// fetchMonthlyTotals aggregates total sales per (year, month). The
// components are text, so "03" and "3" land in separate SQL groups;
// the groups are parsed and merged here. Rows whose year or month
// component is not numeric are skipped and counted.
func fetchMonthlyTotals(ctx context.Context, db DB) ([]monthTotal, int, error) {
	rows, err := db.Query(ctx, `
        SELECT d.year, d.month,
               SUM(o.product_quantity * p.product_price)::float8 AS total_sales
        FROM orders_table o
        JOIN dim_products p ON o.product_code = p.product_code
        JOIN dim_date_times d ON o.date_uuid = d.date_uuid
        GROUP BY d.year, d.month
    `)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	merged := make(map[[2]int]float64)
	skipped := 0
	for rows.Next() {
		var year, month string
		var total float64
		if err := rows.Scan(&year, &month, &total); err != nil {
			return nil, 0, classify(err)
		}

		y, errY := strconv.Atoi(year)
		m, errM := strconv.Atoi(month)
		if errY != nil || errM != nil || m < 1 || m > 12 {
			skipped++
			continue
		}
		merged[[2]int{y, m}] += total
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err)
	}

	totals := make([]monthTotal, 0, len(merged))
	for key, total := range merged {
		totals = append(totals, monthTotal{Year: key[0], Month: key[1], Total: total})
	}
	return totals, skipped, nil
}

// MonthlyAverage is one row of the monthly_sales report.
type MonthlyAverage struct {
	Month    int
	AvgSales float64
}

// averageByMonth averages the per-year totals of each month number across
// the years that month appears in, rounds to two decimals, and returns
// the topN months by average descending (month ascending on ties).
func averageByMonth(totals []monthTotal, topN int) []MonthlyAverage {
	sums := make(map[int]float64)
	years := make(map[int]int)
	for _, t := range totals {
		sums[t.Month] += t.Total
		years[t.Month]++
	}

	out := make([]MonthlyAverage, 0, len(sums))
	for month, sum := range sums {
		out = append(out, MonthlyAverage{
			Month:    month,
			AvgSales: Round2(sum / float64(years[month])),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgSales != out[j].AvgSales {
			return out[i].AvgSales > out[j].AvgSales
		}
		return out[i].Month < out[j].Month
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// AverageMonthlySales computes the average sales total of each calendar
// month across all years and returns the top months by average.
func AverageMonthlySales(ctx context.Context, db DB, topN int) ([]MonthlyAverage, int, error) {
	totals, skipped, err := fetchMonthlyTotals(ctx, db)
	if err != nil {
		return nil, 0, err
	}
	return averageByMonth(totals, topN), skipped, nil
}

// MonthSales is one row of the peak_month_by_year report: the sales total
// of a single (year, month) pair, no averaging across years.
type MonthSales struct {
	TotalSales float64
	Year       int
	Month      int
}

// peakMonths returns the topN (year, month) pairs by total descending;
// ties break on year then month ascending.
func peakMonths(totals []monthTotal, topN int) []MonthSales {
	out := make([]MonthSales, 0, len(totals))
	for _, t := range totals {
		out = append(out, MonthSales{
			TotalSales: Round2(t.Total),
			Year:       t.Year,
			Month:      t.Month,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSales != out[j].TotalSales {
			return out[i].TotalSales > out[j].TotalSales
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// PeakSalesMonths returns the highest-grossing (year, month) pairs.
func PeakSalesMonths(ctx context.Context, db DB, topN int) ([]MonthSales, int, error) {
	totals, skipped, err := fetchMonthlyTotals(ctx, db)
	if err != nil {
		return nil, 0, err
	}
	return peakMonths(totals, topN), skipped, nil
}

// StoreTypeSales is one row of the sales_by_store_type and
// german_store_types reports.
type StoreTypeSales struct {
	StoreType  string
	TotalSales float64
	Percentage float64
}

// applyPercentages fills Percentage as each type's share of the grand
// total, rounded to two decimals, and orders rows by total descending
// (store type ascending on ties). A zero grand total makes the shares
// undefined; the report then returns no rows rather than dividing by
// zero.
func applyPercentages(rows []StoreTypeSales) []StoreTypeSales {
	var grand float64
	for _, r := range rows {
		grand += r.TotalSales
	}
	if grand == 0 {
		return nil
	}

	out := make([]StoreTypeSales, len(rows))
	for i, r := range rows {
		out[i] = StoreTypeSales{
			StoreType:  r.StoreType,
			TotalSales: Round2(r.TotalSales),
			Percentage: Round2(100 * r.TotalSales / grand),
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSales != out[j].TotalSales {
			return out[i].TotalSales > out[j].TotalSales
		}
		return out[i].StoreType < out[j].StoreType
	})
	return out
}

// SalesByStoreType computes total sales and share of the grand total per
// store type. Store types with no orders do not appear (inner-join
// semantics).
func SalesByStoreType(ctx context.Context, db DB) ([]StoreTypeSales, error) {
	rows, err := db.Query(ctx, `
        SELECT s.store_type,
               SUM(o.product_quantity * p.product_price)::float8 AS total_sales
        FROM orders_table o
        JOIN dim_store_details s ON o.store_code = s.store_code
        JOIN dim_products p ON o.product_code = p.product_code
        GROUP BY s.store_type
    `)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var raw []StoreTypeSales
	for rows.Next() {
		var r StoreTypeSales
		if err := rows.Scan(&r.StoreType, &r.TotalSales); err != nil {
			return nil, classify(err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return applyPercentages(raw), nil
}

// StoreTypeSalesForCountry computes total sales per store type within a
// single country, descending by total.
func StoreTypeSalesForCountry(ctx context.Context, db DB, countryCode string) ([]StoreTypeSales, error) {
	rows, err := db.Query(ctx, `
        SELECT s.store_type,
               ROUND(SUM(o.product_quantity * p.product_price)::numeric, 2)::float8 AS total_sales
        FROM orders_table o
        JOIN dim_store_details s ON o.store_code = s.store_code
        JOIN dim_products p ON o.product_code = p.product_code
        WHERE s.country_code = $1
        GROUP BY s.store_type
        ORDER BY total_sales DESC, s.store_type ASC
    `, countryCode)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []StoreTypeSales
	for rows.Next() {
		var r StoreTypeSales
		if err := rows.Scan(&r.StoreType, &r.TotalSales); err != nil {
			return nil, classify(err)
		}
		out = append(out, r)
	}
	return out, classify(rows.Err())
}

type monthlySalesReport struct{}

func (monthlySalesReport) Name() string { return "monthly_sales" }

func (monthlySalesReport) Description() string {
	return "Average monthly sales across all years, six best months first"
}

func (monthlySalesReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	months, skipped, err := AverageMonthlySales(ctx, db, 6)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:      "monthly_sales",
		Columns:     []string{"month", "average_sales"},
		SkippedRows: skipped,
	}
	for _, m := range months {
		res.Rows = append(res.Rows, []string{
			strconv.Itoa(m.Month), FormatAmount(m.AvgSales),
		})
	}
	return res, nil
}

type peakMonthByYearReport struct{}

func (peakMonthByYearReport) Name() string { return "peak_month_by_year" }

func (peakMonthByYearReport) Description() string {
	return "The ten highest-grossing calendar months of any year"
}

func (peakMonthByYearReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	months, skipped, err := PeakSalesMonths(ctx, db, 10)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:      "peak_month_by_year",
		Columns:     []string{"total_sales", "year", "month"},
		SkippedRows: skipped,
	}
	for _, m := range months {
		res.Rows = append(res.Rows, []string{
			FormatAmount(m.TotalSales), strconv.Itoa(m.Year), strconv.Itoa(m.Month),
		})
	}
	return res, nil
}

type salesByStoreTypeReport struct{}

func (salesByStoreTypeReport) Name() string { return "sales_by_store_type" }

func (salesByStoreTypeReport) Description() string {
	return "Total sales and share of overall revenue per store type"
}

func (salesByStoreTypeReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	types, err := SalesByStoreType(ctx, db)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:  "sales_by_store_type",
		Columns: []string{"store_type", "total_sales", "percentage_total"},
	}
	for _, t := range types {
		res.Rows = append(res.Rows, []string{
			t.StoreType, FormatAmount(t.TotalSales), FormatAmount(t.Percentage),
		})
	}
	return res, nil
}

type germanStoreTypesReport struct{}

func (germanStoreTypesReport) Name() string { return "german_store_types" }

func (germanStoreTypesReport) Description() string {
	return "Total sales per store type in Germany, best-performing first"
}

func (germanStoreTypesReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	types, err := StoreTypeSalesForCountry(ctx, db, "DE")
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:  "german_store_types",
		Columns: []string{"store_type", "total_sales"},
	}
	for _, t := range types {
		res.Rows = append(res.Rows, []string{t.StoreType, FormatAmount(t.TotalSales)})
	}
	return res, nil
}

func init() {
	Register(monthlySalesReport{})
	Register(peakMonthByYearReport{})
	Register(salesByStoreTypeReport{})
	Register(germanStoreTypesReport{})
}
