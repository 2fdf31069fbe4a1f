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
)

// columnSurvivalFraction is the minimum fraction of non-null values a
// column must have to survive cleaning. A column more than 75% null is
// dropped before any row filtering.
const columnSurvivalFraction = 0.25

// clean materializes stage_features from stage_processed: columns below
// the survival threshold are dropped, then rows containing any null in
// a surviving column, then exact duplicates. The null-row drop is
// idempotent, so it runs once. The output has zero nulls and zero
// duplicate rows, and its column set is a subset of the input's.
func (p *Pipeline) clean(ctx context.Context, stats *Stats) error {
	rows, err := p.runStage(ctx, "clean", func(ctx context.Context) (int64, error) {
		survivors, err := p.survivingColumns(ctx)
		if err != nil {
			return 0, err
		}

		selectList := strings.Join(survivors, ", ")
		query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s",
			selectList, database.StageProcessed, notNullPredicate(survivors))

		if err := p.db.CreateTableAs(ctx, database.StageFeatures, query); err != nil {
			return 0, err
		}
		return p.db.TableRowCount(ctx, database.StageFeatures)
	})
	if err != nil {
		return err
	}

	stats.FeatureRows = rows
	return nil
}

// survivingColumns returns the processed columns whose non-null count
// meets the survival threshold. A zero-row input keeps every column;
// there is nothing to judge sparsity against.
func (p *Pipeline) survivingColumns(ctx context.Context) ([]string, error) {
	columns, err := p.db.TableColumns(ctx, database.StageProcessed)
	if err != nil {
		return nil, err
	}

	total, err := p.db.TableRowCount(ctx, database.StageProcessed)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return columns, nil
	}

	counts := make([]string, len(columns))
	for i, col := range columns {
		counts[i] = fmt.Sprintf("COUNT(%s)", col)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(counts, ", "), database.StageProcessed)

	row := p.db.Conn().QueryRowContext(ctx, query)
	nonNull := make([]int64, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range nonNull {
		scanTargets[i] = &nonNull[i]
	}
	if err := row.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("count non-null values: %w", err)
	}

	var survivors []string
	for i, col := range columns {
		if float64(nonNull[i]) >= columnSurvivalFraction*float64(total) {
			survivors = append(survivors, col)
		}
	}

	// Degenerate input where every column fails the threshold: keep the
	// full column set and let the null-row drop empty the table instead
	// of producing a zero-column relation.
	if len(survivors) == 0 {
		return columns, nil
	}
	return survivors, nil
}

// notNullPredicate builds the row filter requiring every surviving
// column to be non-null.
func notNullPredicate(columns []string) string {
	predicates := make([]string, len(columns))
	for i, col := range columns {
		predicates[i] = col + " IS NOT NULL"
	}
	return strings.Join(predicates, " AND ")
}
