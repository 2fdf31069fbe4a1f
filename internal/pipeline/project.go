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

// DroppedColumns is the fixed exclusion list the projector removes from
// the aggregated table: identifiers, stock and pricing fields, and
// customer personal contact fields carry no recommendation signal (or
// leak dimension data into the feature table).
var DroppedColumns = []string{
	"category_id",
	"id",
	"available_quantity",
	"image_url",
	"price",
	"phone",
	"email",
	"first_name",
	"last_name",
}

// project materializes stage_processed by removing the fixed exclusion
// list from stage_aggregated. Every column in the drop list must be
// present in the input; a missing column means the joiner's output
// shape drifted and fails the run with a SchemaMismatchError.
func (p *Pipeline) project(ctx context.Context, stats *Stats) error {
	rows, err := p.runStage(ctx, "project", func(ctx context.Context) (int64, error) {
		columns, err := p.db.TableColumns(ctx, database.StageAggregated)
		if err != nil {
			return 0, err
		}

		present := make(map[string]bool, len(columns))
		for _, col := range columns {
			present[col] = true
		}

		var missing []string
		for _, col := range DroppedColumns {
			if !present[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return 0, &SchemaMismatchError{Stage: "project", Missing: missing}
		}

		dropped := make(map[string]bool, len(DroppedColumns))
		for _, col := range DroppedColumns {
			dropped[col] = true
		}

		var kept []string
		for _, col := range columns {
			if !dropped[col] {
				kept = append(kept, col)
			}
		}

		query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(kept, ", "), database.StageAggregated)
		if err := p.db.CreateTableAs(ctx, database.StageProcessed, query); err != nil {
			return 0, err
		}
		return p.db.TableRowCount(ctx, database.StageProcessed)
	})
	if err != nil {
		return err
	}

	stats.ProcessedRows = rows
	return nil
}
