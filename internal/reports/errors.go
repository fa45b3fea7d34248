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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes that indicate a missing or malformed schema.
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
	codeUndefinedSchema = "3F000"
)

// SchemaError indicates the warehouse schema is absent or malformed:
// a required table or column does not exist.
type SchemaError struct {
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("warehouse schema error: %s", e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DataAccessError indicates the warehouse could not be read: connection
// failure, query failure, or any other database-level error that is not
// a schema mismatch.
type DataAccessError struct {
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("warehouse read failed: %v", e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// ParseError indicates a stored textual component could not be
// interpreted, such as an unparseable reconstructed sale timestamp.
// Rows carrying such values are excluded from results and counted in
// Result.SkippedRows.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable value %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// classify maps a raw query error into the report error taxonomy.
// Context cancellation and timeouts pass through untouched so callers
// can distinguish an abandoned report from a failed one.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable, codeUndefinedColumn, codeUndefinedSchema:
			return &SchemaError{Detail: pgErr.Message, Err: err}
		}
	}

	return &DataAccessError{Err: err}
}
