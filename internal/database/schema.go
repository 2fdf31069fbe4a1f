// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"time"
)

// Published table names. These are the serving surface: readers query
// them, and each pipeline run replaces them wholesale via
// PublishStaging.
const (
	TableInteractions      = "interactions"
	TableCustomers         = "customers"
	TableProducts          = "products"
	TableProductCategories = "product_categories"
	TableAggregated        = "aggregated"
	TableProcessed         = "processed"
	TableFeatures          = "features"
)

// Staging table names. Only the pipeline run in flight touches these.
const (
	StageInteractions      = "stage_interactions"
	StageCustomers         = "stage_customers"
	StageProducts          = "stage_products"
	StageProductCategories = "stage_product_categories"
	StageAggregated        = "stage_aggregated"
	StageProcessed         = "stage_processed"
	StageFeatures          = "stage_features"
)

// StagingToPublished maps each staging table to its published name, in
// pipeline order.
func StagingToPublished() [][2]string {
	return [][2]string{
		{StageInteractions, TableInteractions},
		{StageCustomers, TableCustomers},
		{StageProducts, TableProducts},
		{StageProductCategories, TableProductCategories},
		{StageAggregated, TableAggregated},
		{StageProcessed, TableProcessed},
		{StageFeatures, TableFeatures},
	}
}

// PublishedTables returns the published table names in pipeline order.
func PublishedTables() []string {
	pairs := StagingToPublished()
	tables := make([]string, 0, len(pairs))
	for _, p := range pairs {
		tables = append(tables, p[1])
	}
	return tables
}

// createTables creates empty published tables so query-only serving
// works before the first pipeline run. IF NOT EXISTS keeps existing
// artifacts from a prior process intact.
//
// The raw tables mirror the source collections with identifiers coerced
// to their stable hex string form; the derived tables (aggregated,
// processed, features) start with the shape a pipeline run produces
// from well-formed input and are replaced wholesale on publish.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schemas := []struct {
		table string
		ddl   string
	}{
		{TableInteractions, `
			CREATE TABLE IF NOT EXISTS interactions (
				id VARCHAR NOT NULL,
				customer_id VARCHAR,
				product_id VARCHAR,
				interaction_type INTEGER
			)`},
		{TableCustomers, `
			CREATE TABLE IF NOT EXISTS customers (
				id VARCHAR NOT NULL,
				first_name VARCHAR,
				last_name VARCHAR,
				email VARCHAR,
				phone VARCHAR
			)`},
		{TableProducts, `
			CREATE TABLE IF NOT EXISTS products (
				id VARCHAR NOT NULL,
				product_name VARCHAR,
				price DOUBLE,
				image_url VARCHAR,
				description VARCHAR,
				category_id VARCHAR,
				available_quantity BIGINT
			)`},
		{TableProductCategories, `
			CREATE TABLE IF NOT EXISTS product_categories (
				id VARCHAR NOT NULL,
				category_name VARCHAR,
				category_code BIGINT
			)`},
		{TableAggregated, `
			CREATE TABLE IF NOT EXISTS aggregated (
				id VARCHAR,
				customer_id VARCHAR,
				product_id VARCHAR,
				interaction_type INTEGER,
				first_name VARCHAR,
				last_name VARCHAR,
				email VARCHAR,
				phone VARCHAR,
				product_name VARCHAR,
				price DOUBLE,
				image_url VARCHAR,
				description VARCHAR,
				category_id VARCHAR,
				available_quantity BIGINT,
				category_name VARCHAR,
				category_code BIGINT
			)`},
		{TableProcessed, `
			CREATE TABLE IF NOT EXISTS processed (
				customer_id VARCHAR,
				product_id VARCHAR,
				interaction_type INTEGER,
				product_name VARCHAR,
				description VARCHAR,
				category_name VARCHAR,
				category_code BIGINT
			)`},
		{TableFeatures, `
			CREATE TABLE IF NOT EXISTS features (
				customer_id VARCHAR,
				product_id VARCHAR,
				interaction_type INTEGER,
				product_name VARCHAR,
				description VARCHAR,
				category_name VARCHAR,
				category_code BIGINT
			)`},
	}

	for _, s := range schemas {
		if err := db.exec(ctx, "create_table", s.table, s.ddl); err != nil {
			return err
		}
	}
	return nil
}
