//-------------------------------------------------------------------------
//
// Retail Reports
//
// Copyright (c) 2025 - 2026, Quantabyte, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse manages the retail star schema: DDL, verification,
// and synthetic seed data. The production warehouse is populated by an
// external loader; this package exists so the reports can be developed
// and exercised without it.
package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the star schema: the orders fact table surrounded by
// the store, product, date-time, user and card dimensions. The date-time
// dimension keeps its components as text, exactly as the loader ships
// them; the sales_velocity report reconstructs instants from them.
const createSchemaSQL = `
-- Store Dimension
CREATE TABLE IF NOT EXISTS dim_store_details (
    store_code    TEXT PRIMARY KEY,
    store_address TEXT,
    longitude     DOUBLE PRECISION,
    latitude      DOUBLE PRECISION,
    locality      TEXT NOT NULL,
    staff_numbers SMALLINT NOT NULL,
    opening_date  DATE,
    store_type    TEXT NOT NULL,
    country_code  TEXT NOT NULL,
    continent     TEXT
);

-- Product Dimension
CREATE TABLE IF NOT EXISTS dim_products (
    product_code  TEXT PRIMARY KEY,
    product_name  TEXT NOT NULL,
    product_price NUMERIC(10,2) NOT NULL,
    weight_kg     NUMERIC(10,3),
    category      TEXT,
    ean           TEXT,
    date_added    DATE,
    uuid          UUID,
    removed       TEXT
);

-- Date/Time Dimension (components stored as text by the loader)
CREATE TABLE IF NOT EXISTS dim_date_times (
    date_uuid   UUID PRIMARY KEY,
    year        TEXT NOT NULL,
    month       TEXT NOT NULL,
    day         TEXT NOT NULL,
    "timestamp" TEXT NOT NULL,
    time_period TEXT
);

-- User Dimension
CREATE TABLE IF NOT EXISTS dim_users_table (
    user_uuid     UUID PRIMARY KEY,
    first_name    TEXT,
    last_name     TEXT,
    date_of_birth DATE,
    company       TEXT,
    email_address TEXT,
    address       TEXT,
    country       TEXT,
    country_code  TEXT,
    phone_number  TEXT,
    join_date     DATE
);

-- Card Dimension
CREATE TABLE IF NOT EXISTS dim_card_details (
    card_number            TEXT PRIMARY KEY,
    expiry_date            TEXT,
    card_provider          TEXT,
    date_payment_confirmed DATE
);

-- Orders Fact
CREATE TABLE IF NOT EXISTS orders_table (
    order_id         BIGSERIAL PRIMARY KEY,
    date_uuid        UUID NOT NULL,
    user_uuid        UUID,
    card_number      TEXT,
    store_code       TEXT NOT NULL,
    product_code     TEXT NOT NULL,
    product_quantity SMALLINT NOT NULL
);

-- Indexes for the analytical joins
CREATE INDEX IF NOT EXISTS idx_orders_store ON orders_table(store_code);
CREATE INDEX IF NOT EXISTS idx_orders_product ON orders_table(product_code);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders_table(date_uuid);
CREATE INDEX IF NOT EXISTS idx_stores_country ON dim_store_details(country_code);
CREATE INDEX IF NOT EXISTS idx_stores_locality ON dim_store_details(locality);
`

// Drop schema SQL
const dropSchemaSQL = `
DROP TABLE IF EXISTS orders_table CASCADE;
DROP TABLE IF EXISTS dim_card_details CASCADE;
DROP TABLE IF EXISTS dim_users_table CASCADE;
DROP TABLE IF EXISTS dim_date_times CASCADE;
DROP TABLE IF EXISTS dim_products CASCADE;
DROP TABLE IF EXISTS dim_store_details CASCADE;
`

// CreateSchema creates the warehouse schema.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the warehouse schema.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}
