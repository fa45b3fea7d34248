package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantabyte/retail-reports/internal/db"
	"github.com/quantabyte/retail-reports/internal/logging"
	"github.com/quantabyte/retail-reports/internal/reports"
	"github.com/quantabyte/retail-reports/internal/warehouse"
)

var (
	runReports  []string
	runTimeout  int
	runParallel int
	runFormat   string
	runOutput   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run analytical reports against the warehouse",
	Long: `Run the analytical report set against an initialized warehouse.
All reports run by default; --reports selects a subset. Reports are
independent read-only queries and run concurrently; a failing report
does not abort the others.

Example:
  retail-reports run
  retail-reports run --reports stores_by_country,online_sales_split
  retail-reports run --format csv --output ./out`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringSliceVar(&runReports, "reports", nil,
		"comma-separated report names (default: all)")
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0,
		"per-report timeout in seconds")
	runCmd.Flags().IntVar(&runParallel, "parallel", 0,
		"maximum reports executed concurrently")
	runCmd.Flags().StringVar(&runFormat, "format", "",
		"output format: table, csv, json")
	runCmd.Flags().StringVar(&runOutput, "output", "",
		"directory to write one file per report (default: stdout)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runTimeout > 0 {
		cfg.Run.Timeout = runTimeout
	}
	if runParallel > 0 {
		cfg.Run.Parallel = runParallel
	}
	if runFormat != "" {
		cfg.Run.Format = runFormat
	}
	if runOutput != "" {
		cfg.Run.Output = runOutput
	}

	// Validate configuration
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Fail before running anything if the schema is not the one the
	// reports expect.
	if err := warehouse.Verify(ctx, pool); err != nil {
		return err
	}

	// The web sentinel is data, not schema, so Verify cannot catch a
	// mismatch. If init recorded a different code, every web order would
	// silently count as offline; warn but keep going, since a production
	// warehouse has no metadata table at all.
	if seeded, err := db.GetMetadataValue(ctx, pool, "web_store_code"); err == nil && seeded != cfg.WebStoreCode {
		logging.Warn().
			Str("configured", cfg.WebStoreCode).
			Str("seeded", seeded).
			Msg("Web store code differs from the value recorded at init")
	}

	// Handle shutdown signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	}()

	runner := reports.NewRunner(pool, reports.RunnerConfig{
		Timeout:  time.Duration(cfg.Run.Timeout) * time.Second,
		Parallel: cfg.Run.Parallel,
		Options:  reports.Options{WebStoreCode: cfg.WebStoreCode},
	})

	outcomes, err := runner.Run(ctx, runReports)
	if err != nil {
		return err
	}

	if err := renderOutcomes(cmd.OutOrStdout(), outcomes, cfg.Run.Format, cfg.Run.Output); err != nil {
		return err
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(outcomes))
	}
	return nil
}
