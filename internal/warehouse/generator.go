//-------------------------------------------------------------------------
//
// Retail Reports
//
// Copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantabyte/retail-reports/internal/datagen"
	"github.com/quantabyte/retail-reports/internal/logging"
)

// Reference data mirroring the distributions of the production loader.
var (
	countryCodes   = []string{"GB", "DE", "US"}
	countryWeights = []int{60, 25, 15}

	storeTypes       = []string{"Local", "Super Store", "Mall Kiosk", "Outlet"}
	storeTypeWeights = []int{55, 20, 13, 12}

	cardProviders = []string{"VISA 16 digit", "VISA 13 digit", "JCB 16 digit",
		"Mastercard", "Discover", "American Express", "Diners Club / Carte Blanche"}

	productCategories = []string{"homeware", "toys-and-games", "food-and-drink",
		"pets", "sports-and-leisure", "health-and-beauty", "diy"}
)

// SeedConfig controls how much data the generator produces.
type SeedConfig struct {
	Orders   int
	Stores   int
	Products int
	Users    int

	// Seed fixes the RNG for reproducible datasets (0 = time-based).
	Seed uint64

	// WebStoreCode is the sentinel store row added on top of Stores.
	WebStoreCode string
}

// Generator seeds the warehouse with synthetic retail data.
type Generator struct {
	faker *datagen.Faker
	cfg   datagen.BatchInsertConfig
}

// NewGenerator creates a new warehouse data generator.
func NewGenerator(seed uint64) *Generator {
	faker := datagen.NewFaker()
	if seed != 0 {
		faker = datagen.NewFakerWithSeed(seed)
	}
	return &Generator{
		faker: faker,
		cfg:   datagen.DefaultBatchConfig(),
	}
}

// GenerateData populates the star schema: dimensions first, then the
// orders fact table with one dim_date_times row per order.
func (g *Generator) GenerateData(ctx context.Context, pool *pgxpool.Pool, cfg SeedConfig) error {
	logging.Info().
		Int("stores", cfg.Stores).
		Int("products", cfg.Products).
		Int("users", cfg.Users).
		Int("orders", cfg.Orders).
		Msg("Seeding warehouse")

	storeCodes, err := g.generateStores(ctx, pool, cfg.Stores, cfg.WebStoreCode)
	if err != nil {
		return fmt.Errorf("failed to seed dim_store_details: %w", err)
	}

	productCodes, err := g.generateProducts(ctx, pool, cfg.Products)
	if err != nil {
		return fmt.Errorf("failed to seed dim_products: %w", err)
	}

	userUUIDs, err := g.generateUsers(ctx, pool, cfg.Users)
	if err != nil {
		return fmt.Errorf("failed to seed dim_users_table: %w", err)
	}

	cardNumbers, err := g.generateCards(ctx, pool, cfg.Users)
	if err != nil {
		return fmt.Errorf("failed to seed dim_card_details: %w", err)
	}

	if err := g.generateOrders(ctx, pool, cfg, storeCodes, productCodes, userUUIDs, cardNumbers); err != nil {
		return fmt.Errorf("failed to seed orders_table: %w", err)
	}

	return nil
}

func (g *Generator) generateStores(ctx context.Context, pool *pgxpool.Pool, count int, webStoreCode string) ([]string, error) {
	logging.Info().Int("count", count).Msg("Seeding stores")

	// A limited locality pool so locality grouping produces real clusters.
	localities := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		localities = append(localities, g.faker.City())
	}

	codes := make([]string, 0, count+1)
	for i := 0; i < count; i++ {
		locality := datagen.Choose(g.faker, localities)
		code := g.faker.StoreCode(locality)

		_, err := pool.Exec(ctx, `
            INSERT INTO dim_store_details (store_code, store_address, longitude, latitude,
                locality, staff_numbers, opening_date, store_type, country_code, continent)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            ON CONFLICT (store_code) DO NOTHING
        `,
			code,
			g.faker.Street(),
			g.faker.Float64(-10, 25),
			g.faker.Float64(35, 60),
			locality,
			g.faker.Int(2, 120),
			g.faker.DateRange(
				time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)),
			datagen.ChooseWeighted(g.faker, storeTypes, storeTypeWeights),
			datagen.ChooseWeighted(g.faker, countryCodes, countryWeights),
			"Europe",
		)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	// The online store is a single sentinel row with no physical address.
	_, err := pool.Exec(ctx, `
        INSERT INTO dim_store_details (store_code, store_address, longitude, latitude,
            locality, staff_numbers, opening_date, store_type, country_code, continent)
        VALUES ($1, NULL, NULL, NULL, 'N/A', $2, $3, 'Web Portal', 'GB', 'Europe')
        ON CONFLICT (store_code) DO NOTHING
    `, webStoreCode, g.faker.Int(200, 400),
		time.Date(2010, 10, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	codes = append(codes, webStoreCode)

	return codes, nil
}

func (g *Generator) generateProducts(ctx context.Context, pool *pgxpool.Pool, count int) ([]string, error) {
	logging.Info().Int("count", count).Msg("Seeding products")

	batch := make([]string, 0, g.cfg.BatchSize)
	codes := make([]string, 0, count)
	columns := "(product_code, product_name, product_price, weight_kg, category, ean, date_added, uuid, removed)"

	for i := 0; i < count; i++ {
		code := g.faker.ProductCode()
		codes = append(codes, code)

		removed := "Still_avaliable"
		if g.faker.Float64(0, 1) < 0.03 {
			removed = "Removed"
		}

		batch = append(batch, fmt.Sprintf("(%s, %s, %.2f, %.3f, %s, '%s', '%s', '%s', %s)",
			sqlQuote(code),
			sqlQuote(datagen.Truncate(g.faker.ProductName(), 120)),
			g.faker.Price(0.5, 160),
			g.faker.Float64(0.01, 40),
			sqlQuote(datagen.Choose(g.faker, productCategories)),
			g.faker.EAN(),
			g.faker.DateRange(
				time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)).Format("2006-01-02"),
			g.faker.UUID(),
			sqlQuote(removed),
		))

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "dim_products", columns, batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "dim_products", columns, batch); err != nil {
			return nil, err
		}
	}

	return codes, nil
}

func (g *Generator) generateUsers(ctx context.Context, pool *pgxpool.Pool, count int) ([]string, error) {
	logging.Info().Int("count", count).Msg("Seeding users")

	batch := make([]string, 0, g.cfg.BatchSize)
	uuids := make([]string, 0, count)
	columns := "(user_uuid, first_name, last_name, date_of_birth, company, email_address, address, country, country_code, phone_number, join_date)"

	for i := 0; i < count; i++ {
		id := g.faker.UUID()
		uuids = append(uuids, id)
		country := datagen.ChooseWeighted(g.faker, countryCodes, countryWeights)

		batch = append(batch, fmt.Sprintf("('%s', %s, %s, '%s', %s, %s, %s, %s, '%s', %s, '%s')",
			id,
			sqlQuote(g.faker.FirstName()),
			sqlQuote(g.faker.LastName()),
			g.faker.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC)).Format("2006-01-02"),
			sqlQuote(g.faker.Company()),
			sqlQuote(g.faker.Email()),
			sqlQuote(g.faker.Street()+", "+g.faker.City()),
			sqlQuote(countryName(country)),
			country,
			sqlQuote(g.faker.Phone()),
			g.faker.DateRange(
				time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)).Format("2006-01-02"),
		))

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "dim_users_table", columns, batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "dim_users_table", columns, batch); err != nil {
			return nil, err
		}
	}

	return uuids, nil
}

func (g *Generator) generateCards(ctx context.Context, pool *pgxpool.Pool, count int) ([]string, error) {
	logging.Info().Int("count", count).Msg("Seeding cards")

	batch := make([]string, 0, g.cfg.BatchSize)
	numbers := make([]string, 0, count)
	columns := "(card_number, expiry_date, card_provider, date_payment_confirmed)"
	seen := make(map[string]bool, count)

	for len(numbers) < count {
		number := g.faker.CreditCardNumber()
		if seen[number] {
			continue
		}
		seen[number] = true
		numbers = append(numbers, number)

		batch = append(batch, fmt.Sprintf("('%s', '%02d/%02d', %s, '%s')",
			number,
			g.faker.Int(1, 12),
			g.faker.Int(23, 30),
			sqlQuote(datagen.Choose(g.faker, cardProviders)),
			g.faker.DateRange(
				time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)).Format("2006-01-02"),
		))

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "dim_card_details", columns, batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "dim_card_details", columns, batch); err != nil {
			return nil, err
		}
	}

	return numbers, nil
}

// generateOrders writes one dim_date_times row and one orders_table row
// per sale. Components are stored as unpadded text, matching the shape
// the production loader delivers.
func (g *Generator) generateOrders(ctx context.Context, pool *pgxpool.Pool, cfg SeedConfig,
	storeCodes, productCodes, userUUIDs, cardNumbers []string) error {

	logging.Info().Int("count", cfg.Orders).Msg("Seeding orders")
	progress := datagen.NewProgressReporter("orders_table", int64(cfg.Orders), g.cfg.ProgressInterval)

	dateColumns := `(date_uuid, year, month, day, "timestamp", time_period)`
	orderColumns := "(date_uuid, user_uuid, card_number, store_code, product_code, product_quantity)"

	dateBatch := make([]string, 0, g.cfg.BatchSize)
	orderBatch := make([]string, 0, g.cfg.BatchSize)

	start := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC)

	// Roughly a third of orders go through the web store.
	webWeight := []int{1, 2}

	for i := 0; i < cfg.Orders; i++ {
		dateUUID := g.faker.UUID()
		instant := g.faker.DateRange(start, end)

		dateBatch = append(dateBatch, fmt.Sprintf("('%s', '%d', '%d', '%d', '%s', %s)",
			dateUUID,
			instant.Year(),
			int(instant.Month()),
			instant.Day(),
			instant.Format("15:04:05"),
			sqlQuote(timePeriod(instant.Hour())),
		))

		storeCode := datagen.Choose(g.faker, storeCodes)
		if datagen.ChooseWeighted(g.faker, []bool{true, false}, webWeight) {
			storeCode = cfg.WebStoreCode
		}

		var userUUID, cardNumber string
		if len(userUUIDs) > 0 {
			userUUID = datagen.Choose(g.faker, userUUIDs)
		}
		if len(cardNumbers) > 0 {
			cardNumber = datagen.Choose(g.faker, cardNumbers)
		}

		orderBatch = append(orderBatch, fmt.Sprintf("('%s', %s, %s, %s, %s, %d)",
			dateUUID,
			sqlNullableQuote(userUUID),
			sqlNullableQuote(cardNumber),
			sqlQuote(storeCode),
			sqlQuote(datagen.Choose(g.faker, productCodes)),
			g.faker.Int(1, 12),
		))

		if len(orderBatch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, pool, "dim_date_times", dateColumns, dateBatch); err != nil {
				return err
			}
			if err := g.executeBatchInsert(ctx, pool, "orders_table", orderColumns, orderBatch); err != nil {
				return err
			}
			progress.Update(int64(len(orderBatch)))
			dateBatch = dateBatch[:0]
			orderBatch = orderBatch[:0]
		}
	}

	if len(orderBatch) > 0 {
		if err := g.executeBatchInsert(ctx, pool, "dim_date_times", dateColumns, dateBatch); err != nil {
			return err
		}
		if err := g.executeBatchInsert(ctx, pool, "orders_table", orderColumns, orderBatch); err != nil {
			return err
		}
		progress.Update(int64(len(orderBatch)))
	}

	progress.Done()
	return nil
}

func (g *Generator) executeBatchInsert(ctx context.Context, pool *pgxpool.Pool,
	table, columns string, batch []string) error {

	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s",
		table, columns, strings.Join(batch, ", "))
	_, err := pool.Exec(ctx, sql)
	return err
}

func timePeriod(hour int) string {
	switch {
	case hour < 6:
		return "Late_Hours"
	case hour < 12:
		return "Morning"
	case hour < 17:
		return "Midday"
	default:
		return "Evening"
	}
}

func countryName(code string) string {
	switch code {
	case "GB":
		return "United Kingdom"
	case "DE":
		return "Germany"
	case "US":
		return "United States"
	default:
		return code
	}
}

// sqlQuote escapes a string literal for the batched VALUES inserts.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlNullableQuote(s string) string {
	if s == "" {
		return "NULL"
	}
	return sqlQuote(s)
}
