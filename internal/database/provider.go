// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Provider implements recommend.DataProvider over the published tables.
// Interaction slices come from the features table; product metadata is
// hydrated from the published dimension tables, since the feature table
// deliberately drops non-predictive columns.
type Provider struct {
	db *DB
}

// NewProvider creates a data provider reading from db.
func NewProvider(db *DB) *Provider {
	return &Provider{db: db}
}

var _ recommend.DataProvider = (*Provider)(nil)

// confidenceSQL maps interaction_type to its confidence weight, matching
// recommend.InteractionType.Confidence.
const confidenceSQL = `CASE interaction_type
		WHEN 3 THEN 1.0
		WHEN 2 THEN 0.6
		WHEN 1 THEN 0.3
		ELSE 0.1
	END`

// CustomerInteractions returns the customer's feature rows.
func (p *Provider) CustomerInteractions(ctx context.Context, customerID string) ([]recommend.Interaction, error) {
	query := `
		SELECT customer_id, product_id, interaction_type
		FROM features
		WHERE customer_id = ?`
	return p.queryInteractions(ctx, "customer_interactions", query, customerID)
}

// CoCustomerInteractions returns the complete histories of every
// customer who interacted with at least one of the given products,
// excluding excludeCustomerID.
func (p *Provider) CoCustomerInteractions(ctx context.Context, productIDs []string, excludeCustomerID string) ([]recommend.Interaction, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT customer_id, product_id, interaction_type
		FROM features
		WHERE customer_id <> ?
		  AND customer_id IN (
			SELECT DISTINCT customer_id
			FROM features
			WHERE product_id IN (%s)
		  )`, placeholders(len(productIDs)))

	args := make([]interface{}, 0, len(productIDs)+1)
	args = append(args, excludeCustomerID)
	for _, id := range productIDs {
		args = append(args, id)
	}

	return p.queryInteractions(ctx, "co_customer_interactions", query, args...)
}

// TopProducts returns up to limit products ranked by confidence-weighted
// interaction count, ties broken by product ID.
func (p *Provider) TopProducts(ctx context.Context, limit int) ([]recommend.ProductScore, error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, cancel := p.db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT product_id, SUM(%s) AS score
		FROM features
		WHERE product_id IS NOT NULL
		GROUP BY product_id
		ORDER BY score DESC, product_id ASC
		LIMIT ?`, confidenceSQL)

	start := time.Now()
	rows, err := p.db.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("top_products", TableFeatures, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer closeRows(rows)

	var scores []recommend.ProductScore
	for rows.Next() {
		var s recommend.ProductScore
		if err := rows.Scan(&s.ProductID, &s.Score); err != nil {
			return nil, fmt.Errorf("scan product score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top products: %w", err)
	}
	return scores, nil
}

// ProductDetails returns metadata for the given products, keyed by
// product ID. Unknown products are omitted.
func (p *Provider) ProductDetails(ctx context.Context, productIDs []string) (map[string]recommend.Item, error) {
	if len(productIDs) == 0 {
		return map[string]recommend.Item{}, nil
	}

	ctx, cancel := p.db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT p.id, p.product_name, p.description, c.category_name, c.category_code
		FROM products p
		LEFT JOIN product_categories c ON p.category_id = c.id
		WHERE p.id IN (%s)`, placeholders(len(productIDs)))

	args := make([]interface{}, len(productIDs))
	for i, id := range productIDs {
		args[i] = id
	}

	start := time.Now()
	rows, err := p.db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("product_details", TableProducts, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query product details: %w", err)
	}
	defer closeRows(rows)

	details := make(map[string]recommend.Item, len(productIDs))
	for rows.Next() {
		var (
			item         recommend.Item
			name, desc   sql.NullString
			categoryName sql.NullString
			categoryCode sql.NullInt64
		)
		if err := rows.Scan(&item.ProductID, &name, &desc, &categoryName, &categoryCode); err != nil {
			return nil, fmt.Errorf("scan product details: %w", err)
		}
		item.ProductName = name.String
		item.Description = desc.String
		item.CategoryName = categoryName.String
		item.CategoryCode = categoryCode.Int64
		details[item.ProductID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product details: %w", err)
	}
	return details, nil
}

// queryInteractions runs a query returning (customer_id, product_id,
// interaction_type) rows. Rows with a null customer or product are
// skipped; the cleaner guarantees the features table has none, but
// first-boot empty schemas make the guard cheap to keep.
func (p *Provider) queryInteractions(ctx context.Context, operation, query string, args ...interface{}) ([]recommend.Interaction, error) {
	ctx, cancel := p.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery(operation, TableFeatures, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", operation, err)
	}
	defer closeRows(rows)

	var interactions []recommend.Interaction
	for rows.Next() {
		var (
			customerID, productID sql.NullString
			interactionType       sql.NullInt32
		)
		if err := rows.Scan(&customerID, &productID, &interactionType); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if !customerID.Valid || !productID.Valid {
			continue
		}
		interactions = append(interactions, recommend.Interaction{
			CustomerID: customerID.String,
			ProductID:  productID.String,
			Type:       recommend.InteractionType(interactionType.Int32),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", operation, err)
	}
	return interactions, nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
