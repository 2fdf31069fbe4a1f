// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
)

// join materializes stage_aggregated from three inner joins in fixed
// order: interaction-customer, then product, then product-category.
//
// Column disambiguation follows the left-survives rule: when a
// right-hand table carries a column name already present in the
// accumulated left-hand set (notably id), the left occurrence keeps the
// base name and the right occurrence is dropped. Interactions with
// dangling foreign keys are silently excluded; the stats row counts
// make the loss observable.
func (p *Pipeline) join(ctx context.Context, stats *Stats) error {
	rows, err := p.runStage(ctx, "join", func(ctx context.Context) (int64, error) {
		selectList, err := p.joinSelectList(ctx)
		if err != nil {
			return 0, err
		}

		query := fmt.Sprintf(`SELECT %s
			FROM %s i
			JOIN %s c ON i.customer_id = c.id
			JOIN %s p ON i.product_id = p.id
			JOIN %s g ON p.category_id = g.id`,
			selectList,
			database.StageInteractions,
			database.StageCustomers,
			database.StageProducts,
			database.StageProductCategories)

		if err := p.db.CreateTableAs(ctx, database.StageAggregated, query); err != nil {
			return 0, err
		}
		return p.db.TableRowCount(ctx, database.StageAggregated)
	})
	if err != nil {
		return err
	}

	stats.AggregatedRows = rows
	if dropped := stats.InteractionRows - rows; dropped > 0 {
		logging.Debug().
			Int64("dropped", dropped).
			Msg("Interactions with unmatched foreign keys excluded by inner joins")
	}
	return nil
}

// joinSelectList builds the aggregated SELECT list from catalog
// introspection, applying the left-survives disambiguation rule across
// the four staging tables in join order.
func (p *Pipeline) joinSelectList(ctx context.Context) (string, error) {
	tables := []struct {
		name  string
		alias string
	}{
		{database.StageInteractions, "i"},
		{database.StageCustomers, "c"},
		{database.StageProducts, "p"},
		{database.StageProductCategories, "g"},
	}

	var list []string
	seen := make(map[string]bool)
	for _, t := range tables {
		columns, err := p.db.TableColumns(ctx, t.name)
		if err != nil {
			return "", err
		}
		for _, col := range columns {
			if seen[col] {
				continue
			}
			seen[col] = true
			list = append(list, fmt.Sprintf("%s.%s", t.alias, col))
		}
	}

	return strings.Join(list, ", "), nil
}
