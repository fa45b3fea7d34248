//-------------------------------------------------------------------------
//
// Retail Reports
//
// Portions copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-reports.
// Configuration is layered: built-in defaults, then a YAML config file,
// then a local .env file (for the connection string), then CLI flags.
// CLI flags take precedence over everything else.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConnectionEnvVar is the environment variable consulted for the
// PostgreSQL connection string when none is configured elsewhere.
const ConnectionEnvVar = "RETAIL_REPORTS_CONNECTION"

// Config holds all configuration for retail-reports.
type Config struct {
	// Connection is the PostgreSQL connection string for the warehouse.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// WebStoreCode is the store code that marks online orders. The
	// warehouse encodes the web channel as a sentinel store row rather
	// than an explicit channel column, so the code is configurable
	// instead of hardcoded in the queries.
	WebStoreCode string `mapstructure:"web_store_code"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Run holds configuration for the run subcommand.
	Run RunConfig `mapstructure:"run"`
}

// InitConfig holds configuration for schema creation and seeding.
type InitConfig struct {
	// Orders is the number of order lines to seed.
	Orders int `mapstructure:"orders"`

	// Stores is the number of physical stores to seed (the web store
	// row is always added on top).
	Stores int `mapstructure:"stores"`

	// Products is the number of products to seed.
	Products int `mapstructure:"products"`

	// Users is the number of users to seed.
	Users int `mapstructure:"users"`

	// Seed is the RNG seed for data generation (0 = time-based).
	Seed uint64 `mapstructure:"seed"`

	// DropExisting drops the existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// RunConfig holds configuration for report execution.
type RunConfig struct {
	// Timeout is the per-report timeout in seconds.
	Timeout int `mapstructure:"timeout"`

	// Parallel is the maximum number of reports executed concurrently.
	Parallel int `mapstructure:"parallel"`

	// Format is the output format: table, csv, or json.
	Format string `mapstructure:"format"`

	// Output is a directory to write one file per report into.
	// Empty means print to stdout.
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		WebStoreCode: "WEB-1388012W",
		Init: InitConfig{
			Orders:   120000,
			Stores:   440,
			Products: 1800,
			Users:    15000,
		},
		Run: RunConfig{
			Timeout:  60,
			Parallel: 4,
			Format:   "table",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-reports.yaml
// 3. ~/.config/retail-reports/config.yaml
func Load(configFile string) (*Config, error) {
	// A local .env may carry the connection string; missing files are fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("retail-reports")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-reports"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Connection == "" {
		cfg.Connection = os.Getenv(ConnectionEnvVar)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.WebStoreCode == "" {
		return fmt.Errorf("web_store_code must not be empty")
	}
	return nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Init.Orders < 0 || c.Init.Stores < 0 || c.Init.Products < 0 || c.Init.Users < 0 {
		return fmt.Errorf("seed row counts must be non-negative")
	}
	if c.Init.Stores < 1 {
		return fmt.Errorf("at least one store is required")
	}
	if c.Init.Products < 1 {
		return fmt.Errorf("at least one product is required")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Run.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second")
	}
	if c.Run.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1")
	}
	switch c.Run.Format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("format must be 'table', 'csv', or 'json'")
	}
	return nil
}
