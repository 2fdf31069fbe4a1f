// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/config"
)

// testDBSemaphore limits concurrent database creation to prevent
// resource exhaustion in CI. Concurrent DuckDB CGO calls can hang under
// resource pressure, so tests hold the semaphore for their entire
// lifetime, not just during creation.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes the New call itself.
var testDBMutex sync.Mutex

// setupTestDB creates an in-memory test database with timeout
// protection. The 120-second watchdog fails fast if DuckDB hangs
// instead of letting the test run into the CI timeout.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Logf("Warning: failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

// seedFeatures replaces the features table content with the given rows.
func seedFeatures(t *testing.T, db *DB, rows [][]interface{}) {
	t.Helper()

	ctx := context.Background()
	if _, err := db.conn.ExecContext(ctx, "DELETE FROM features"); err != nil {
		t.Fatalf("Failed to clear features: %v", err)
	}

	columns := []string{"customer_id", "product_id", "interaction_type", "product_name", "description", "category_name", "category_code"}
	if err := db.InsertRows(ctx, TableFeatures, columns, rows, 0); err != nil {
		t.Fatalf("Failed to seed features: %v", err)
	}
}

// featureRow builds a features row with only the scoring columns set.
func featureRow(customerID, productID string, interactionType int32) []interface{} {
	return []interface{}{customerID, productID, interactionType, nil, nil, nil, nil}
}

// seedProducts replaces products and product_categories content.
func seedProducts(t *testing.T, db *DB, products [][]interface{}, categories [][]interface{}) {
	t.Helper()

	ctx := context.Background()
	for _, table := range []string{TableProducts, TableProductCategories} {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clear %s: %v", table, err)
		}
	}

	productCols := []string{"id", "product_name", "price", "image_url", "description", "category_id", "available_quantity"}
	if err := db.InsertRows(ctx, TableProducts, productCols, products, 0); err != nil {
		t.Fatalf("Failed to seed products: %v", err)
	}

	categoryCols := []string{"id", "category_name", "category_code"}
	if err := db.InsertRows(ctx, TableProductCategories, categoryCols, categories, 0); err != nil {
		t.Fatalf("Failed to seed product categories: %v", err)
	}
}
