package reports_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantabyte/retail-reports/internal/reports"
	"github.com/quantabyte/retail-reports/internal/testutil"
	"github.com/quantabyte/retail-reports/internal/warehouse"
)

var allReportNames = []string{
	"german_store_types",
	"monthly_sales",
	"online_sales_split",
	"peak_month_by_year",
	"sales_by_store_type",
	"sales_velocity",
	"staff_by_country",
	"stores_by_country",
	"top_localities",
}

func fixtureUUID(n int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
}

func mustExec(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), sql, args...); err != nil {
		t.Fatalf("exec failed: %v\nsql: %s", err, sql)
	}
}

func insertStore(t *testing.T, pool *pgxpool.Pool, code, locality string, staff int, storeType, country string) {
	t.Helper()
	mustExec(t, pool, `
        INSERT INTO dim_store_details (store_code, locality, staff_numbers, store_type, country_code)
        VALUES ($1, $2, $3, $4, $5)
    `, code, locality, staff, storeType, country)
}

func insertDate(t *testing.T, pool *pgxpool.Pool, uuid, year, month, day, timestamp string) {
	t.Helper()
	mustExec(t, pool, `
        INSERT INTO dim_date_times (date_uuid, year, month, day, "timestamp")
        VALUES ($1, $2, $3, $4, $5)
    `, uuid, year, month, day, timestamp)
}

func insertOrder(t *testing.T, pool *pgxpool.Pool, dateUUID, storeCode, productCode string, quantity int) {
	t.Helper()
	mustExec(t, pool, `
        INSERT INTO orders_table (date_uuid, store_code, product_code, product_quantity)
        VALUES ($1, $2, $3, $4)
    `, dateUUID, storeCode, productCode, quantity)
}

func runReport(t *testing.T, pool *pgxpool.Pool, name string) *reports.Result {
	t.Helper()

	rep, err := reports.Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := rep.Run(ctx, pool, reports.DefaultOptions())
	if err != nil {
		t.Fatalf("report %s failed: %v", name, err)
	}
	return res
}

func expectRows(t *testing.T, res *reports.Result, want [][]string) {
	t.Helper()
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("report %s rows:\n  got  %v\n  want %v", res.Report, res.Rows, want)
	}
}

// TestReportsEndToEnd seeds a hand-built fixture where every report's
// expected output can be computed by inspection, then checks all nine
// against it.
func TestReportsEndToEnd(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	connStr := testutil.CreateTestDB(t, baseConnStr, "reports")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
	defer cleanup.Cleanup()

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.SetPool(pool)

	ctx := context.Background()
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	if err := warehouse.Verify(ctx, pool); err != nil {
		t.Fatalf("Verify on fresh schema: %v", err)
	}

	// Three physical stores; the web sentinel deliberately has NO
	// dim_store_details row, so store-joined reports drop web orders
	// while the channel split still sees them.
	insertStore(t, pool, "ST-DE-1", "Berlin", 10, "Local", "DE")
	insertStore(t, pool, "ST-DE-2", "Munich", 20, "Super Store", "DE")
	insertStore(t, pool, "ST-GB-1", "London", 5, "Local", "GB")

	mustExec(t, pool, `
        INSERT INTO dim_products (product_code, product_name, product_price)
        VALUES ('P-1', 'Walnut Chess Set', 10.00)
    `)

	// Two sales in March 2022, 5 days 2.5 hours apart. The second date
	// row stores unpadded components, as the loader does.
	insertDate(t, pool, fixtureUUID(1), "2022", "03", "15", "12:00:00")
	insertDate(t, pool, fixtureUUID(2), "2022", "3", "20", "14:30:00")

	insertOrder(t, pool, fixtureUUID(1), reports.DefaultWebStoreCode, "P-1", 3)
	insertOrder(t, pool, fixtureUUID(2), "ST-DE-1", "P-1", 2)

	t.Run("stores_by_country", func(t *testing.T) {
		res := runReport(t, pool, "stores_by_country")
		expectRows(t, res, [][]string{
			{"DE", "2"},
			{"GB", "1"},
		})
	})

	t.Run("top_localities", func(t *testing.T) {
		// All localities tie on one store; locality ascending decides.
		res := runReport(t, pool, "top_localities")
		expectRows(t, res, [][]string{
			{"Berlin", "1"},
			{"London", "1"},
			{"Munich", "1"},
		})
	})

	t.Run("staff_by_country", func(t *testing.T) {
		res := runReport(t, pool, "staff_by_country")
		expectRows(t, res, [][]string{
			{"DE", "30"},
			{"GB", "5"},
		})
	})

	t.Run("monthly_sales", func(t *testing.T) {
		// 3*10.00 web + 2*10.00 offline, one year, so the average for
		// March is the plain total.
		res := runReport(t, pool, "monthly_sales")
		expectRows(t, res, [][]string{
			{"3", "50.00"},
		})
		if res.SkippedRows != 0 {
			t.Errorf("skipped %d rows, want 0", res.SkippedRows)
		}
	})

	t.Run("online_sales_split", func(t *testing.T) {
		// One web and one offline order: counts tie, Offline sorts first.
		res := runReport(t, pool, "online_sales_split")
		expectRows(t, res, [][]string{
			{"Offline", "1", "2"},
			{"Web", "1", "3"},
		})
	})

	t.Run("sales_by_store_type", func(t *testing.T) {
		// The web order has no store row and drops out of the join, so
		// the single offline sale carries the whole 100%.
		res := runReport(t, pool, "sales_by_store_type")
		expectRows(t, res, [][]string{
			{"Local", "20.00", "100.00"},
		})
	})

	t.Run("peak_month_by_year", func(t *testing.T) {
		res := runReport(t, pool, "peak_month_by_year")
		expectRows(t, res, [][]string{
			{"50.00", "2022", "3"},
		})
	})

	t.Run("german_store_types", func(t *testing.T) {
		res := runReport(t, pool, "german_store_types")
		expectRows(t, res, [][]string{
			{"Local", "20.00"},
		})
	})

	t.Run("sales_velocity", func(t *testing.T) {
		// Gap between the two 2022 sales: 5 days 2.5 hours = 441000s.
		res := runReport(t, pool, "sales_velocity")
		expectRows(t, res, [][]string{
			{"2022", "2", "441000.00"},
		})
		if res.SkippedRows != 0 {
			t.Errorf("skipped %d rows, want 0", res.SkippedRows)
		}
	})

	t.Run("malformed date components", func(t *testing.T) {
		// A third order whose date row cannot be parsed: the affected
		// reports skip it and count it, everything else still sees the
		// order.
		insertDate(t, pool, fixtureUUID(3), "2022", "banana", "07", "12:00:00")
		insertOrder(t, pool, fixtureUUID(3), "ST-GB-1", "P-1", 1)

		res := runReport(t, pool, "monthly_sales")
		expectRows(t, res, [][]string{
			{"3", "50.00"},
		})
		if res.SkippedRows != 1 {
			t.Errorf("monthly_sales skipped %d rows, want 1", res.SkippedRows)
		}

		res = runReport(t, pool, "sales_velocity")
		expectRows(t, res, [][]string{
			{"2022", "2", "441000.00"},
		})
		if res.SkippedRows != 1 {
			t.Errorf("sales_velocity skipped %d rows, want 1", res.SkippedRows)
		}

		// The split does not touch dim_date_times, so the new offline
		// order counts and the ordering flips to count ascending.
		res = runReport(t, pool, "online_sales_split")
		expectRows(t, res, [][]string{
			{"Web", "1", "3"},
			{"Offline", "2", "3"},
		})
	})

	t.Run("runner batch is repeatable", func(t *testing.T) {
		runner := reports.NewRunner(pool, reports.RunnerConfig{
			Timeout:  30 * time.Second,
			Parallel: 4,
		})

		first, err := runner.Run(ctx, allReportNames)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		second, err := runner.Run(ctx, allReportNames)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}

		if len(first) != len(allReportNames) {
			t.Fatalf("got %d outcomes, want %d", len(first), len(allReportNames))
		}
		for name, outcome := range first {
			if outcome.Err != nil {
				t.Errorf("report %s failed: %v", name, outcome.Err)
				continue
			}
			if !reflect.DeepEqual(outcome.Result.Rows, second[name].Result.Rows) {
				t.Errorf("report %s not repeatable:\n  first  %v\n  second %v",
					name, outcome.Result.Rows, second[name].Result.Rows)
			}
		}
	})
}

// TestReportsAgainstMissingSchema checks that the whole report set fails
// with a schema error, not a generic one, when the warehouse was never
// initialized.
func TestReportsAgainstMissingSchema(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	connStr := testutil.CreateTestDB(t, baseConnStr, "noschema")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
	defer cleanup.Cleanup()

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.SetPool(pool)

	ctx := context.Background()

	var schemaErr *reports.SchemaError
	if err := warehouse.Verify(ctx, pool); err == nil {
		t.Fatal("Verify passed without a schema")
	} else if !errors.As(err, &schemaErr) {
		t.Fatalf("Verify returned %T, want *reports.SchemaError: %v", err, err)
	}

	for _, name := range allReportNames {
		rep, err := reports.Get(name)
		if err != nil {
			t.Fatal(err)
		}
		_, err = rep.Run(ctx, pool, reports.DefaultOptions())
		if err == nil {
			t.Errorf("report %s succeeded without a schema", name)
			continue
		}
		if !errors.As(err, &schemaErr) {
			t.Errorf("report %s returned %T, want *reports.SchemaError: %v", name, err, err)
		}
	}
}
