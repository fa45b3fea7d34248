package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quantabyte/retail-reports/internal/db"
	"github.com/quantabyte/retail-reports/internal/logging"
	"github.com/quantabyte/retail-reports/internal/warehouse"
)

var (
	initOrders       int
	initStores       int
	initProducts     int
	initUsers        int
	initSeed         uint64
	initDropExisting bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the star schema and seed it with synthetic data",
	Long: `Create the warehouse star schema and populate it with synthetic
retail data so the reports can be exercised without the production
loader. Row counts are configurable per table.

Example:
  retail-reports init --orders 120000 --connection "postgres://..."
  retail-reports init --seed 42 --drop-existing`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initOrders, "orders", 0,
		"number of order lines to seed")
	initCmd.Flags().IntVar(&initStores, "stores", 0,
		"number of physical stores to seed")
	initCmd.Flags().IntVar(&initProducts, "products", 0,
		"number of products to seed")
	initCmd.Flags().IntVar(&initUsers, "users", 0,
		"number of users (and cards) to seed")
	initCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"RNG seed for reproducible data (0 = time-based)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop the existing schema before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initOrders > 0 {
		cfg.Init.Orders = initOrders
	}
	if initStores > 0 {
		cfg.Init.Stores = initStores
	}
	if initProducts > 0 {
		cfg.Init.Products = initProducts
	}
	if initUsers > 0 {
		cfg.Init.Users = initUsers
	}
	if initSeed != 0 {
		cfg.Init.Seed = initSeed
	}
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	logging.Info().
		Int("orders", cfg.Init.Orders).
		Msg("Initializing warehouse")

	// Seeding runs batched inserts, so allow a few more connections.
	ctx := context.Background()
	pool, err := db.ConnectWithMaxConns(ctx, cfg.Connection, 20)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to seed on top of an already-initialized warehouse; a second
	// seeding pass would double the fact table. An error here means no
	// metadata table, i.e. a fresh database.
	if !cfg.Init.DropExisting {
		if meta, err := db.GetAllMetadata(ctx, pool); err == nil && len(meta) > 0 {
			return fmt.Errorf("warehouse already initialized (version %s, %s); use --drop-existing to reseed",
				meta["version"], meta["initialized_at"])
		}
	}

	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	gen := warehouse.NewGenerator(cfg.Init.Seed)
	seedCfg := warehouse.SeedConfig{
		Orders:       cfg.Init.Orders,
		Stores:       cfg.Init.Stores,
		Products:     cfg.Init.Products,
		Users:        cfg.Init.Users,
		Seed:         cfg.Init.Seed,
		WebStoreCode: cfg.WebStoreCode,
	}
	if err := gen.GenerateData(ctx, pool, seedCfg); err != nil {
		return fmt.Errorf("failed to seed data: %w", err)
	}

	if err := db.SaveMetadata(ctx, pool, map[string]string{
		"orders":         strconv.Itoa(cfg.Init.Orders),
		"web_store_code": cfg.WebStoreCode,
	}); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Int("orders", cfg.Init.Orders).
		Msg("Warehouse initialization complete")

	return nil
}
