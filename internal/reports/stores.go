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
	"strconv"
)

// CountryStoreCount is one row of the stores_by_country report.
type CountryStoreCount struct {
	CountryCode string
	Stores      int64
}

// StoresPerCountry counts stores per country. Rows are ordered by count
// descending; ties break on country code ascending.
func StoresPerCountry(ctx context.Context, db DB) ([]CountryStoreCount, error) {
	rows, err := db.Query(ctx, `
        SELECT country_code, COUNT(*) AS total_no_stores
        FROM dim_store_details
        GROUP BY country_code
        ORDER BY total_no_stores DESC, country_code ASC
    `)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []CountryStoreCount
	for rows.Next() {
		var c CountryStoreCount
		if err := rows.Scan(&c.CountryCode, &c.Stores); err != nil {
			return nil, classify(err)
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

// LocalityStoreCount is one row of the top_localities report.
type LocalityStoreCount struct {
	Locality string
	Stores   int64
}

// TopLocalities returns the localities with the most stores. Rows are
// ordered by count descending; ties break on locality ascending.
func TopLocalities(ctx context.Context, db DB, limit int) ([]LocalityStoreCount, error) {
	rows, err := db.Query(ctx, `
        SELECT locality, COUNT(*) AS total_no_stores
        FROM dim_store_details
        GROUP BY locality
        ORDER BY total_no_stores DESC, locality ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []LocalityStoreCount
	for rows.Next() {
		var l LocalityStoreCount
		if err := rows.Scan(&l.Locality, &l.Stores); err != nil {
			return nil, classify(err)
		}
		out = append(out, l)
	}
	return out, classify(rows.Err())
}

// CountryStaffCount is one row of the staff_by_country report.
type CountryStaffCount struct {
	CountryCode string
	Staff       int64
}

// StaffPerCountry sums staff headcount per country, descending. The web
// store's staff are counted under its registered country like any other
// store.
func StaffPerCountry(ctx context.Context, db DB) ([]CountryStaffCount, error) {
	rows, err := db.Query(ctx, `
        SELECT country_code, SUM(staff_numbers) AS total_staff_numbers
        FROM dim_store_details
        GROUP BY country_code
        ORDER BY total_staff_numbers DESC, country_code ASC
    `)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []CountryStaffCount
	for rows.Next() {
		var c CountryStaffCount
		if err := rows.Scan(&c.CountryCode, &c.Staff); err != nil {
			return nil, classify(err)
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

type storesByCountryReport struct{}

func (storesByCountryReport) Name() string { return "stores_by_country" }

func (storesByCountryReport) Description() string {
	return "Number of stores per operating country, busiest country first"
}

func (storesByCountryReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	counts, err := StoresPerCountry(ctx, db)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:  "stores_by_country",
		Columns: []string{"country", "total_no_stores"},
	}
	for _, c := range counts {
		res.Rows = append(res.Rows, []string{c.CountryCode, strconv.FormatInt(c.Stores, 10)})
	}
	return res, nil
}

type topLocalitiesReport struct{}

func (topLocalitiesReport) Name() string { return "top_localities" }

func (topLocalitiesReport) Description() string {
	return "The eight localities with the most stores"
}

func (topLocalitiesReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	counts, err := TopLocalities(ctx, db, 8)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:  "top_localities",
		Columns: []string{"locality", "total_no_stores"},
	}
	for _, l := range counts {
		res.Rows = append(res.Rows, []string{l.Locality, strconv.FormatInt(l.Stores, 10)})
	}
	return res, nil
}

type staffByCountryReport struct{}

func (staffByCountryReport) Name() string { return "staff_by_country" }

func (staffByCountryReport) Description() string {
	return "Total staff headcount per country"
}

func (staffByCountryReport) Run(ctx context.Context, db DB, _ Options) (*Result, error) {
	counts, err := StaffPerCountry(ctx, db)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:  "staff_by_country",
		Columns: []string{"country_code", "total_staff_numbers"},
	}
	for _, c := range counts {
		res.Rows = append(res.Rows, []string{c.CountryCode, strconv.FormatInt(c.Staff, 10)})
	}
	return res, nil
}

func init() {
	Register(storesByCountryReport{})
	Register(topLocalitiesReport{})
	Register(staffByCountryReport{})
}
