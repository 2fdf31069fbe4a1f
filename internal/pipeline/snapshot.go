// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
)

// ExportSnapshots writes every published table as a CSV file under dir.
// Each file is written to a temporary name and renamed into place so a
// reader never sees a half-written snapshot.
func (p *Pipeline) ExportSnapshots(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	for _, table := range database.PublishedTables() {
		path := filepath.Join(dir, table+".csv")
		tmp := path + ".tmp"

		if err := p.db.ExportTableCSV(ctx, table, tmp); err != nil {
			return fmt.Errorf("export %s snapshot: %w", table, err)
		}
		if err := os.Rename(tmp, path); err != nil {
			// Leave no partial file behind.
			if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.Warn().Err(rmErr).Str("path", tmp).Msg("Failed to remove temporary snapshot")
			}
			return fmt.Errorf("publish %s snapshot: %w", table, err)
		}
	}

	logging.Debug().Str("dir", dir).Msg("CSV snapshots exported")
	return nil
}
