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
	"strconv"
)

// ChannelSplit is one row of the online_sales_split report.
type ChannelSplit struct {
	Location string
	Orders   int64
	Quantity int64
}

// OnlineSalesSplit classifies every order as "Web" when its store code
// matches the web sentinel, otherwise "Offline", and aggregates order
// and quantity counts per class. Rows are ordered by order count
// ascending; on equal counts "Offline" sorts before "Web".
func OnlineSalesSplit(ctx context.Context, db DB, webStoreCode string) ([]ChannelSplit, error) {
	rows, err := db.Query(ctx, `
        SELECT CASE WHEN o.store_code = $1 THEN 'Web' ELSE 'Offline' END AS location,
               COUNT(*) AS numbers_of_sales,
               SUM(o.product_quantity) AS product_quantity_count
        FROM orders_table o
        GROUP BY location
        ORDER BY numbers_of_sales ASC, location ASC
    `, webStoreCode)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []ChannelSplit
	for rows.Next() {
		var c ChannelSplit
		if err := rows.Scan(&c.Location, &c.Orders, &c.Quantity); err != nil {
			return nil, classify(err)
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

type onlineSalesSplitReport struct{}

func (onlineSalesSplitReport) Name() string { return "online_sales_split" }

func (onlineSalesSplitReport) Description() string {
	return "Order and quantity counts for web versus offline sales"
}

func (onlineSalesSplitReport) Run(ctx context.Context, db DB, opts Options) (*Result, error) {
	code := opts.WebStoreCode
	if code == "" {
		code = DefaultWebStoreCode
	}

	split, err := OnlineSalesSplit(ctx, db, code)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:  "online_sales_split",
		Columns: []string{"location", "numbers_of_sales", "product_quantity_count"},
	}
	for _, c := range split {
		res.Rows = append(res.Rows, []string{
			c.Location,
			strconv.FormatInt(c.Orders, 10),
			strconv.FormatInt(c.Quantity, 10),
		})
	}
	return res, nil
}

func init() {
	Register(onlineSalesSplitReport{})
}
