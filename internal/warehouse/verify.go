package warehouse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quantabyte/retail-reports/internal/reports"
)

// requiredColumns lists the tables and columns the report set reads.
// The user and card dimensions are part of the warehouse but no report
// touches them, so they are not required here.
var requiredColumns = map[string][]string{
	"orders_table":      {"date_uuid", "store_code", "product_code", "product_quantity"},
	"dim_store_details": {"store_code", "locality", "staff_numbers", "store_type", "country_code"},
	"dim_products":      {"product_code", "product_price"},
	"dim_date_times":    {"date_uuid", "year", "month", "day", "timestamp"},
}

// Verify checks that every table and column the reports depend on exists
// in the current schema. A mismatch is reported as a SchemaError naming
// everything that is missing, so a misconfigured connection fails before
// any report runs.
func Verify(ctx context.Context, db reports.DB) error {
	tables := make([]string, 0, len(requiredColumns))
	for table := range requiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	rows, err := db.Query(ctx, `
        SELECT table_name, column_name
        FROM information_schema.columns
        WHERE table_schema = current_schema()
          AND table_name = ANY($1)
    `, tables)
	if err != nil {
		return &reports.DataAccessError{Err: err}
	}
	defer rows.Close()

	present := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return &reports.DataAccessError{Err: err}
		}
		if present[table] == nil {
			present[table] = make(map[string]bool)
		}
		present[table][column] = true
	}
	if err := rows.Err(); err != nil {
		return &reports.DataAccessError{Err: err}
	}

	var missing []string
	for _, table := range tables {
		cols, ok := present[table]
		if !ok {
			missing = append(missing, fmt.Sprintf("table %s", table))
			continue
		}
		for _, col := range requiredColumns[table] {
			if !cols[col] {
				missing = append(missing, fmt.Sprintf("column %s.%s", table, col))
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &reports.SchemaError{
			Detail: "missing " + strings.Join(missing, ", "),
		}
	}
	return nil
}
