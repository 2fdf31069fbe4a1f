// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// defaultQueryTimeout bounds queries whose callers pass a context
// without a deadline.
const defaultQueryTimeout = 30 * time.Second

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the analytics database and initializes the published schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	// 0750 per gosec G301.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load of extensions to prevent hangs in
	// restricted network environments; nothing here needs extensions.
	// preserve_insertion_order=false reduces memory usage but may change
	// result order.
	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	db.configureConnectionPool()

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("Database opened")

	return db, nil
}

// configureConnectionPool tunes the connection pool. DuckDB is an
// embedded database; a small pool keeps serving queries concurrent
// while a pipeline run writes staging tables.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(4)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(0)
	metrics.DBConnectionPoolSize.Set(4)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint flushes the WAL into the main database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// Close checkpoints and closes the database. The checkpoint is best
// effort; a failure is logged, not returned, so shutdown proceeds.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	return db.conn.Close()
}

// ensureContext attaches the default query timeout when the caller's
// context has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// exec runs a statement and records query metrics under the given
// operation and table labels.
func (db *DB) exec(ctx context.Context, operation, table, query string, args ...interface{}) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", operation, table, err)
	}
	return nil
}

// TableColumns returns the column names of a table in declaration order.
func (db *DB) TableColumns(ctx context.Context, table string) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		ORDER BY ordinal_position`, table)
	metrics.RecordDBQuery("introspect", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	defer closeRows(rows)

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns of %s: %w", table, err)
	}
	return columns, nil
}

// TableRowCount returns the number of rows in a table.
func (db *DB) TableRowCount(ctx context.Context, table string) (int64, error) {
	if err := validateTableName(table); err != nil {
		return 0, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var count int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&count)
	metrics.RecordDBQuery("count", table, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// CreateTableAs materializes a query as a table, replacing any prior
// version. The query string is assembled internally by pipeline stages
// from introspected column names; it never carries user input.
func (db *DB) CreateTableAs(ctx context.Context, table, query string) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS %s", quoteIdent(table), query)
	return db.exec(ctx, "create_as", table, stmt)
}

// quoteIdent quotes an identifier for interpolation into DDL. DuckDB
// does not support parameter binding for identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// validateTableName rejects identifiers outside the snake_case set this
// package generates, as defense against SQL injection through table
// names.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}

// closeQuietly closes a connection ignoring errors (cleanup paths only).
func closeQuietly(conn *sql.DB) {
	_ = conn.Close()
}

// closeRows closes a result set, logging on failure.
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close rows")
	}
}
