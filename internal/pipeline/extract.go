// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package pipeline

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tomtom215/shelfwise/internal/database"
)

// Staging column definitions for the four raw tables. Source field
// names (including the upstream's irregular spellings) normalize to
// snake_case here; store-native ObjectIDs become stable hex strings.
const (
	interactionsDDL = "id VARCHAR NOT NULL, customer_id VARCHAR, product_id VARCHAR, interaction_type INTEGER"
	customersDDL    = "id VARCHAR NOT NULL, first_name VARCHAR, last_name VARCHAR, email VARCHAR, phone VARCHAR"
	productsDDL     = "id VARCHAR NOT NULL, product_name VARCHAR, price DOUBLE, image_url VARCHAR, description VARCHAR, category_id VARCHAR, available_quantity BIGINT"
	categoriesDDL   = "id VARCHAR NOT NULL, category_name VARCHAR, category_code BIGINT"
)

// extract fetches the four source collections and materializes each as
// a staging table. An empty collection stages an empty table; only a
// failed fetch fails the stage.
func (p *Pipeline) extract(ctx context.Context, stats *Stats) error {
	_, err := p.runStage(ctx, "extract", func(ctx context.Context) (int64, error) {
		if err := p.extractInteractions(ctx, stats); err != nil {
			return 0, err
		}
		if err := p.extractCustomers(ctx, stats); err != nil {
			return 0, err
		}
		if err := p.extractProducts(ctx, stats); err != nil {
			return 0, err
		}
		if err := p.extractCategories(ctx, stats); err != nil {
			return 0, err
		}
		return stats.InteractionRows + stats.CustomerRows + stats.ProductRows + stats.CategoryRows, nil
	})
	return err
}

func (p *Pipeline) extractInteractions(ctx context.Context, stats *Stats) error {
	docs, err := p.source.FetchInteractions(ctx)
	if err != nil {
		return sourceUnavailable(err)
	}

	rows := make([][]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = []interface{}{d.ID.Hex(), optHex(d.CustomerID), optHex(d.ProductID), opt(d.InteractionType)}
	}

	columns := []string{"id", "customer_id", "product_id", "interaction_type"}
	if err := p.stage(ctx, database.StageInteractions, interactionsDDL, columns, rows); err != nil {
		return err
	}
	stats.InteractionRows = int64(len(rows))
	return nil
}

func (p *Pipeline) extractCustomers(ctx context.Context, stats *Stats) error {
	docs, err := p.source.FetchCustomers(ctx)
	if err != nil {
		return sourceUnavailable(err)
	}

	rows := make([][]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = []interface{}{d.ID.Hex(), opt(d.FirstName), opt(d.LastName), opt(d.Email), opt(d.Phone)}
	}

	columns := []string{"id", "first_name", "last_name", "email", "phone"}
	if err := p.stage(ctx, database.StageCustomers, customersDDL, columns, rows); err != nil {
		return err
	}
	stats.CustomerRows = int64(len(rows))
	return nil
}

func (p *Pipeline) extractProducts(ctx context.Context, stats *Stats) error {
	docs, err := p.source.FetchProducts(ctx)
	if err != nil {
		return sourceUnavailable(err)
	}

	rows := make([][]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = []interface{}{
			d.ID.Hex(), opt(d.ProductName), opt(d.Price), opt(d.ImageURL),
			opt(d.Description), optHex(d.CategoryID), opt(d.AvailableQuantity),
		}
	}

	columns := []string{"id", "product_name", "price", "image_url", "description", "category_id", "available_quantity"}
	if err := p.stage(ctx, database.StageProducts, productsDDL, columns, rows); err != nil {
		return err
	}
	stats.ProductRows = int64(len(rows))
	return nil
}

func (p *Pipeline) extractCategories(ctx context.Context, stats *Stats) error {
	docs, err := p.source.FetchCategories(ctx)
	if err != nil {
		return sourceUnavailable(err)
	}

	rows := make([][]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = []interface{}{d.ID.Hex(), opt(d.CategoryName), opt(d.CategoryCode)}
	}

	columns := []string{"id", "category_name", "category_code"}
	if err := p.stage(ctx, database.StageProductCategories, categoriesDDL, columns, rows); err != nil {
		return err
	}
	stats.CategoryRows = int64(len(rows))
	return nil
}

// stage replaces a staging table and loads it in batches.
func (p *Pipeline) stage(ctx context.Context, table, ddl string, columns []string, rows [][]interface{}) error {
	if err := p.db.CreateStagingTable(ctx, table, ddl); err != nil {
		return err
	}
	return p.db.InsertRows(ctx, table, columns, rows, p.batchSize)
}

// opt dereferences an optional document field, mapping nil to SQL NULL.
func opt[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// optHex renders an optional ObjectID as its hex string, nil as NULL.
func optHex(id *bson.ObjectID) interface{} {
	if id == nil {
		return nil
	}
	return id.Hex()
}
