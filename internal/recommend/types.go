// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package recommend ranks products for a customer from the published
// feature table. The default scorer recommends products that customers
// with overlapping histories interacted with, weighted by interaction
// strength, and falls back to global popularity for customers with no
// recorded history.
//
// Scorers read through the DataProvider interface and never touch the
// database directly, so the serving layer can swap implementations and
// tests can run against in-memory fixtures.
package recommend

import (
	"context"
	"time"
)

// InteractionType classifies customer-product interactions for implicit
// feedback. Values match the interaction_type column of the source data.
type InteractionType int32

const (
	// InteractionView indicates the customer viewed the product.
	InteractionView InteractionType = iota + 1
	// InteractionCartAdd indicates the customer added the product to a cart.
	InteractionCartAdd
	// InteractionPurchase indicates the customer purchased the product.
	InteractionPurchase
)

// String returns a human-readable name for the interaction type.
func (t InteractionType) String() string {
	switch t {
	case InteractionView:
		return "view"
	case InteractionCartAdd:
		return "cart_add"
	case InteractionPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// Confidence returns the confidence weight for this interaction type.
// Higher values indicate stronger positive signal.
func (t InteractionType) Confidence() float64 {
	switch t {
	case InteractionPurchase:
		return 1.0
	case InteractionCartAdd:
		return 0.6
	case InteractionView:
		return 0.3
	default:
		return 0.1 // Non-zero so unclassified rows still contribute
	}
}

// Interaction is one customer-product interaction from the feature table.
type Interaction struct {
	// CustomerID identifies the customer.
	CustomerID string `json:"customer_id"`

	// ProductID identifies the product.
	ProductID string `json:"product_id"`

	// Type classifies the interaction.
	Type InteractionType `json:"type"`
}

// Item carries the product metadata attached to a recommendation.
// Fields mirror the product columns of the feature table; columns pruned
// during cleaning surface as zero values.
type Item struct {
	// ProductID identifies the product.
	ProductID string `json:"product_id"`

	// ProductName is the display name.
	ProductName string `json:"product_name,omitempty"`

	// Description is the product description.
	Description string `json:"description,omitempty"`

	// CategoryName is the product category display name.
	CategoryName string `json:"category_name,omitempty"`

	// CategoryCode is the numeric category code.
	CategoryCode int64 `json:"category_code,omitempty"`
}

// ScoredItem is an item with its recommendation score.
type ScoredItem struct {
	// Item is the product metadata.
	Item Item `json:"item"`

	// Score is the recommendation score, normalized to [0, 1].
	Score float64 `json:"score"`

	// Reason is an interpretable explanation for the recommendation.
	Reason string `json:"reason,omitempty"`
}

// ProductScore pairs a product with an unnormalized popularity weight.
type ProductScore struct {
	// ProductID identifies the product.
	ProductID string `json:"product_id"`

	// Score is the confidence-weighted interaction sum.
	Score float64 `json:"score"`
}

// Scoring sources reported in Stats.
const (
	// SourceCoVisit marks results ranked from co-customer histories.
	SourceCoVisit = "covisit"
	// SourcePopularity marks results ranked by global popularity.
	SourcePopularity = "popularity"
)

// Stats describes how a ranking was produced. The serving layer logs it
// and discards it.
type Stats struct {
	// UserInteractions is the number of feature rows for the customer.
	UserInteractions int `json:"user_interactions"`

	// Candidates is the number of distinct products considered.
	Candidates int `json:"candidates"`

	// Source is the scoring source (covisit or popularity).
	Source string `json:"source"`

	// Elapsed is the total scoring latency.
	Elapsed time.Duration `json:"elapsed"`
}

// Scorer produces a ranked recommendation list for a customer.
type Scorer interface {
	// Score returns up to count ranked items for the customer.
	// A customer with no history is not an error.
	Score(ctx context.Context, customerID string, count int) ([]ScoredItem, Stats, error)
}

// DataProvider supplies feature-table slices to scorers.
type DataProvider interface {
	// CustomerInteractions returns the customer's feature rows.
	CustomerInteractions(ctx context.Context, customerID string) ([]Interaction, error)

	// CoCustomerInteractions returns the complete histories of every
	// customer who interacted with at least one of the given products,
	// excluding excludeCustomerID.
	CoCustomerInteractions(ctx context.Context, productIDs []string, excludeCustomerID string) ([]Interaction, error)

	// TopProducts returns up to limit products ranked by
	// confidence-weighted interaction count, ties broken by product ID.
	TopProducts(ctx context.Context, limit int) ([]ProductScore, error)

	// ProductDetails returns metadata for the given products, keyed by
	// product ID. Unknown products are omitted from the result.
	ProductDetails(ctx context.Context, productIDs []string) (map[string]Item, error)
}
