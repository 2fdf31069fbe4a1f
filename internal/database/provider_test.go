// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"testing"
)

func TestProviderCustomerInteractions(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)
	ctx := context.Background()

	seedFeatures(t, db, [][]interface{}{
		featureRow("c1", "p1", 3),
		featureRow("c1", "p2", 1),
		featureRow("c2", "p1", 2),
	})

	history, err := provider.CustomerInteractions(ctx, "c1")
	if err != nil {
		t.Fatalf("CustomerInteractions: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d interactions, want 2", len(history))
	}
	for _, i := range history {
		if i.CustomerID != "c1" {
			t.Errorf("got interaction for %q, want c1", i.CustomerID)
		}
	}
}

func TestProviderCustomerInteractionsUnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)

	history, err := provider.CustomerInteractions(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("CustomerInteractions: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d interactions for unknown customer, want 0", len(history))
	}
}

func TestProviderCoCustomerInteractions(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)
	ctx := context.Background()

	seedFeatures(t, db, [][]interface{}{
		featureRow("c1", "p1", 3),
		featureRow("c2", "p1", 1), // co-customer via p1
		featureRow("c2", "p2", 2), // their full history comes along
		featureRow("c3", "p9", 1), // no overlap, excluded
	})

	co, err := provider.CoCustomerInteractions(ctx, []string{"p1"}, "c1")
	if err != nil {
		t.Fatalf("CoCustomerInteractions: %v", err)
	}

	if len(co) != 2 {
		t.Fatalf("got %d co-interactions, want 2", len(co))
	}
	for _, i := range co {
		if i.CustomerID == "c1" {
			t.Error("excluded customer present in co-customer histories")
		}
		if i.CustomerID == "c3" {
			t.Error("non-overlapping customer present in co-customer histories")
		}
	}
}

func TestProviderCoCustomerInteractionsEmptySeed(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)

	co, err := provider.CoCustomerInteractions(context.Background(), nil, "c1")
	if err != nil {
		t.Fatalf("CoCustomerInteractions: %v", err)
	}
	if len(co) != 0 {
		t.Errorf("got %d co-interactions for empty seed, want 0", len(co))
	}
}

func TestProviderTopProducts(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)
	ctx := context.Background()

	// p1: 1.0 (purchase), p2: 0.3+0.3 = 0.6 (two views),
	// p3: 0.3 (one view). Ranking: p1, p2, p3.
	seedFeatures(t, db, [][]interface{}{
		featureRow("c1", "p1", 3),
		featureRow("c1", "p2", 1),
		featureRow("c2", "p2", 1),
		featureRow("c2", "p3", 1),
	})

	top, err := provider.TopProducts(ctx, 2)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d products, want 2", len(top))
	}
	if top[0].ProductID != "p1" || top[1].ProductID != "p2" {
		t.Errorf("got ranking [%s %s], want [p1 p2]", top[0].ProductID, top[1].ProductID)
	}
}

func TestProviderTopProductsTieBreaksOnID(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)

	seedFeatures(t, db, [][]interface{}{
		featureRow("c1", "pb", 1),
		featureRow("c2", "pa", 1),
	})

	top, err := provider.TopProducts(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(top) != 2 || top[0].ProductID != "pa" {
		t.Errorf("tie not broken by product ID ascending: %+v", top)
	}
}

func TestProviderProductDetails(t *testing.T) {
	db := setupTestDB(t)
	provider := NewProvider(db)
	ctx := context.Background()

	seedProducts(t, db,
		[][]interface{}{
			{"p1", "Espresso Grinder", 129.0, nil, "Burr grinder", "cat-1", int64(12)},
			{"p2", "French Press", 24.0, nil, nil, "cat-missing", int64(3)},
		},
		[][]interface{}{
			{"cat-1", "kitchen", int64(7)},
		})

	details, err := provider.ProductDetails(ctx, []string{"p1", "p2", "p-unknown"})
	if err != nil {
		t.Fatalf("ProductDetails: %v", err)
	}

	if len(details) != 2 {
		t.Fatalf("got %d details, want 2 (unknown product omitted)", len(details))
	}

	p1 := details["p1"]
	if p1.ProductName != "Espresso Grinder" || p1.CategoryName != "kitchen" || p1.CategoryCode != 7 {
		t.Errorf("p1 details wrong: %+v", p1)
	}

	// Dangling category reference hydrates as zero values, not an error.
	p2 := details["p2"]
	if p2.CategoryName != "" || p2.CategoryCode != 0 {
		t.Errorf("p2 expected empty category: %+v", p2)
	}
}
