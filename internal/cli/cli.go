//-------------------------------------------------------------------------
//
// Retail Reports
//
// Portions copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-reports.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantabyte/retail-reports/internal/config"
	"github.com/quantabyte/retail-reports/internal/logging"
	"github.com/quantabyte/retail-reports/internal/reports"
	"github.com/quantabyte/retail-reports/pkg/version"
)

var (
	// Global flags
	cfgFile      string
	connection   string
	logLevel     string
	webStoreCode string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-reports",
		Short: "Analytical reports for the retail warehouse star schema",
		Long: `retail-reports runs a fixed set of read-only analytical reports
against the centralised retail warehouse: store distribution, seasonal
and per-channel sales, staffing, and sales cadence.

The warehouse itself is populated by the upstream loader. For local
development the 'init' command can create the star schema and fill it
with synthetic data.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-reports.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&webStoreCode, "web-store-code", "",
		"store code marking online orders (default: "+reports.DefaultWebStoreCode+")")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if webStoreCode != "" {
		cfg.WebStoreCode = webStoreCode
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Long: `List the analytical reports that 'run' can execute. Each report
answers one fixed business question against the star schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available reports:")
		cmd.Println()
		for _, r := range reports.All() {
			cmd.Println(fmt.Sprintf("  %-22s %s", r.Name(), r.Description()))
		}
		cmd.Println()
		cmd.Println("Use 'retail-reports run --reports <name,...>' to run a subset.")
	},
}
