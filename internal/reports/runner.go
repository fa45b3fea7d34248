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
	"sync"
	"time"

	"github.com/quantabyte/retail-reports/internal/logging"
)

// RunnerConfig holds configuration for the report runner.
type RunnerConfig struct {
	// Timeout bounds each report. On expiry the report is abandoned and
	// reported as failed; it is never retried here. Reports are pure
	// reads, so retrying is safe and left to the caller.
	Timeout time.Duration

	// Parallel is the maximum number of reports in flight at once.
	Parallel int

	// Options is passed to every report.
	Options Options
}

// Outcome is the result-or-error of one report in a batch run.
type Outcome struct {
	Result   *Result
	Err      error
	Duration time.Duration
}

// Runner executes a batch of reports against a shared read-only pool.
type Runner struct {
	db  DB
	cfg RunnerConfig
}

// NewRunner creates a report runner.
func NewRunner(db DB, cfg RunnerConfig) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.Options.WebStoreCode == "" {
		cfg.Options = DefaultOptions()
	}
	return &Runner{db: db, cfg: cfg}
}

// Run executes the named reports (all registered reports when names is
// empty) and collects a per-report outcome. A failing report never
// aborts the others.
func (r *Runner) Run(ctx context.Context, names []string) (map[string]Outcome, error) {
	if len(names) == 0 {
		names = List()
	}

	selected := make([]Report, 0, len(names))
	for _, name := range names {
		rep, err := Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, rep)
	}

	logging.Info().
		Int("reports", len(selected)).
		Int("parallel", r.cfg.Parallel).
		Dur("timeout", r.cfg.Timeout).
		Msg("Running reports")

	var (
		wg       sync.WaitGroup
		mtx      sync.Mutex
		outcomes = make(map[string]Outcome, len(selected))
		sem      = make(chan struct{}, r.cfg.Parallel)
	)

	for _, rep := range selected {
		wg.Add(1)
		go func(rep Report) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := r.runOne(ctx, rep)

			mtx.Lock()
			outcomes[rep.Name()] = outcome
			mtx.Unlock()
		}(rep)
	}

	wg.Wait()
	return outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, rep Report) Outcome {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := rep.Run(ctx, r.db, r.cfg.Options)
	elapsed := time.Since(start)

	if err != nil {
		logging.Error().
			Str("report", rep.Name()).
			Dur("duration", elapsed).
			Err(err).
			Msg("Report failed")
		return Outcome{Err: err, Duration: elapsed}
	}

	evt := logging.Info().
		Str("report", rep.Name()).
		Int("rows", len(result.Rows)).
		Dur("duration", elapsed)
	if result.SkippedRows > 0 {
		evt = evt.Int("skipped_rows", result.SkippedRows)
	}
	evt.Msg("Report complete")

	return Outcome{Result: result, Duration: elapsed}
}
