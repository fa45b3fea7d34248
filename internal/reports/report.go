//-------------------------------------------------------------------------
//
// Retail Reports
//
// Copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports implements the analytical report set for the retail
// warehouse star schema. Every report is a pure read over the fact table
// orders_table and the dim_store_details, dim_products and dim_date_times
// dimensions; reports share no state and may run in any order or in
// parallel against a read-only snapshot.
package reports

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DB is an interface that both *pgxpool.Pool and *pgx.Conn satisfy.
// Reports are read-only, so only query access is exposed.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultWebStoreCode is the store code the warehouse uses to mark the
// online store. The loader encodes the web channel as this sentinel row
// in dim_store_details rather than an explicit channel column.
const DefaultWebStoreCode = "WEB-1388012W"

// Options carries the knobs shared by report executions.
type Options struct {
	// WebStoreCode marks online orders (see DefaultWebStoreCode).
	WebStoreCode string
}

// DefaultOptions returns the default report options.
func DefaultOptions() Options {
	return Options{WebStoreCode: DefaultWebStoreCode}
}

// Result holds the tabular outcome of one report.
type Result struct {
	// Report is the report name.
	Report string

	// Columns is the fixed column set, in output order.
	Columns []string

	// Rows holds the ordered result rows, rendered as strings.
	Rows [][]string

	// SkippedRows counts source rows excluded because a stored
	// component could not be parsed (sales_velocity, monthly totals).
	SkippedRows int
}

// Report defines the interface every analytical report implements.
type Report interface {
	// Name returns the report identifier.
	Name() string

	// Description returns a human-readable description of the business
	// question the report answers.
	Description() string

	// Run executes the report against the warehouse.
	Run(ctx context.Context, db DB, opts Options) (*Result, error)
}
