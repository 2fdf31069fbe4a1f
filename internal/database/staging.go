// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// defaultInsertBatch is the staging insert batch size when the caller
// passes a non-positive value.
const defaultInsertBatch = 1000

// CreateStagingTable replaces a staging table with an empty one of the
// given column definitions (e.g. "id VARCHAR NOT NULL, price DOUBLE").
func (db *DB) CreateStagingTable(ctx context.Context, table, columnsDDL string) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", quoteIdent(table), columnsDDL)
	return db.exec(ctx, "create_staging", table, stmt)
}

// InsertRows appends rows to a table in fixed-size batches. Every row
// must have len(columns) values. A batchSize <= 0 uses the default.
func (db *DB) InsertRows(ctx context.Context, table string, columns []string, rows [][]interface{}, batchSize int) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = defaultInsertBatch
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", quoteIdent(table), strings.Join(quoted, ", "))

	start := time.Now()
	for offset := 0; offset < len(rows); offset += batchSize {
		end := offset + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[offset:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for i, row := range batch {
			if len(row) != len(columns) {
				return fmt.Errorf("insert %s: row %d has %d values, want %d", table, offset+i, len(row), len(columns))
			}
			placeholders[i] = placeholder
			args = append(args, row...)
		}

		if err := db.exec(ctx, "insert", table, prefix+strings.Join(placeholders, ", "), args...); err != nil {
			return err
		}
	}

	logging.Debug().
		Str("table", table).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Staged rows")

	return nil
}

// PublishStaging swaps every staging table into its published name
// inside one transaction. Readers observe either the previous complete
// artifact set or the new one, never a mixture.
func (db *DB) PublishStaging(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish transaction: %w", err)
	}
	defer func() {
		// No-op after a successful Commit.
		_ = tx.Rollback()
	}()

	for _, pair := range StagingToPublished() {
		staging, published := pair[0], pair[1]

		drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(published))
		if _, err := tx.ExecContext(ctx, drop); err != nil {
			return fmt.Errorf("drop %s: %w", published, err)
		}

		rename := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdent(staging), quoteIdent(published))
		if _, err := tx.ExecContext(ctx, rename); err != nil {
			return fmt.Errorf("publish %s as %s: %w", staging, published, err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("publish", "all", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("commit publish transaction: %w", err)
	}

	logging.Info().
		Dur("elapsed", time.Since(start)).
		Msg("Published staging tables")

	return nil
}

// ExportTableCSV writes a table to a CSV file with a header row.
func (db *DB) ExportTableCSV(ctx context.Context, table, path string) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	stmt := fmt.Sprintf("COPY %s TO ? (FORMAT CSV, HEADER true)", quoteIdent(table))
	return db.exec(ctx, "export_csv", table, stmt, path)
}
