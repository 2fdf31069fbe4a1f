// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/models"
)

// Dataset reads page over the published raw tables. The published
// tables are regenerated wholesale by each pipeline run, so offset
// pagination reads a stable snapshot.

// ListInteractions returns one page of the published interactions table.
func (db *DB) ListInteractions(ctx context.Context, limit, offset int) ([]models.InteractionRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT id, customer_id, product_id, interaction_type
		FROM interactions
		ORDER BY id
		LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("list", TableInteractions, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer closeRows(rows)

	result := make([]models.InteractionRow, 0, limit)
	for rows.Next() {
		var row models.InteractionRow
		if err := rows.Scan(&row.ID, &row.CustomerID, &row.ProductID, &row.InteractionType); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return result, nil
}

// ListCustomers returns one page of the published customers table.
func (db *DB) ListCustomers(ctx context.Context, limit, offset int) ([]models.CustomerRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT id, first_name, last_name, email, phone
		FROM customers
		ORDER BY id
		LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("list", TableCustomers, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer closeRows(rows)

	result := make([]models.CustomerRow, 0, limit)
	for rows.Next() {
		var row models.CustomerRow
		if err := rows.Scan(&row.ID, &row.FirstName, &row.LastName, &row.Email, &row.Phone); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return result, nil
}

// ListProducts returns one page of the published products table.
func (db *DB) ListProducts(ctx context.Context, limit, offset int) ([]models.ProductRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT id, product_name, price, image_url, description, category_id, available_quantity
		FROM products
		ORDER BY id
		LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("list", TableProducts, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer closeRows(rows)

	result := make([]models.ProductRow, 0, limit)
	for rows.Next() {
		var row models.ProductRow
		if err := rows.Scan(&row.ID, &row.ProductName, &row.Price, &row.ImageURL,
			&row.Description, &row.CategoryID, &row.AvailableQuantity); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return result, nil
}

// ListProductCategories returns one page of the published
// product_categories table.
func (db *DB) ListProductCategories(ctx context.Context, limit, offset int) ([]models.ProductCategoryRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT id, category_name, category_code
		FROM product_categories
		ORDER BY id
		LIMIT ? OFFSET ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("list", TableProductCategories, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	defer closeRows(rows)

	result := make([]models.ProductCategoryRow, 0, limit)
	for rows.Next() {
		var row models.ProductCategoryRow
		if err := rows.Scan(&row.ID, &row.CategoryName, &row.CategoryCode); err != nil {
			return nil, fmt.Errorf("scan product category row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product categories: %w", err)
	}
	return result, nil
}

// ListRows returns one page of any table as generic column-keyed maps.
// The derived tables (aggregated, processed, features) have run-time
// column sets, so typed row structs cannot describe them.
func (db *DB) ListRows(ctx context.Context, table string, limit, offset int) ([]map[string]interface{}, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	columns, err := db.TableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns", table)
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s LIMIT ? OFFSET ?",
		quoteIdent(table), quoteIdent(columns[0]))

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("list", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer closeRows(rows)

	result := make([]map[string]interface{}, 0, limit)
	values := make([]interface{}, len(columns))
	targets := make([]interface{}, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return result, nil
}
