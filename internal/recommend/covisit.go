// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Explanations attached to scored items.
const (
	reasonCoVisit    = "interacted with by customers with similar history"
	reasonPopularity = "popular across all customers"
)

// CoVisitScorer recommends products from co-customer histories.
//
// Scoring works in two hops. The customer's own products form the seed
// set. Every other customer who touched a seed product is weighted by
// the Jaccard similarity of their product set to the seed set, and each
// product they touched that the customer has not credits that weight
// times the interaction confidence. Candidates are min-max normalized
// and ranked, ties broken by product ID.
//
// Customers with no history fall back to global popularity so cold
// starts still get a useful ranking.
type CoVisitScorer struct {
	provider DataProvider
}

// NewCoVisitScorer creates a scorer reading from the given provider.
func NewCoVisitScorer(provider DataProvider) *CoVisitScorer {
	return &CoVisitScorer{provider: provider}
}

var _ Scorer = (*CoVisitScorer)(nil)

// Score returns up to count ranked items for the customer.
func (s *CoVisitScorer) Score(ctx context.Context, customerID string, count int) ([]ScoredItem, Stats, error) {
	start := time.Now()

	if count <= 0 {
		return []ScoredItem{}, Stats{Elapsed: time.Since(start)}, nil
	}

	history, err := s.provider.CustomerInteractions(ctx, customerID)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("load customer history: %w", err)
	}

	if len(history) == 0 {
		return s.scoreByPopularity(ctx, count, start)
	}

	seen, seedIDs := collapseHistory(history)

	co, err := s.provider.CoCustomerInteractions(ctx, seedIDs, customerID)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("load co-customer histories: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	scores := scoreCandidates(seen, co)
	candidates := len(scores)

	ranked := rankScores(normalizeScores(scores), count)
	items, err := s.hydrate(ctx, ranked, reasonCoVisit)
	if err != nil {
		return nil, Stats{}, err
	}

	return items, Stats{
		UserInteractions: len(history),
		Candidates:       candidates,
		Source:           SourceCoVisit,
		Elapsed:          time.Since(start),
	}, nil
}

// scoreByPopularity ranks globally popular products for customers with
// no recorded history.
func (s *CoVisitScorer) scoreByPopularity(ctx context.Context, count int, start time.Time) ([]ScoredItem, Stats, error) {
	top, err := s.provider.TopProducts(ctx, count)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("load popular products: %w", err)
	}

	scores := make(map[string]float64, len(top))
	for _, p := range top {
		scores[p.ProductID] = p.Score
	}

	ranked := rankScores(normalizeScores(scores), count)
	items, err := s.hydrate(ctx, ranked, reasonPopularity)
	if err != nil {
		return nil, Stats{}, err
	}

	return items, Stats{
		Candidates: len(top),
		Source:     SourcePopularity,
		Elapsed:    time.Since(start),
	}, nil
}

// hydrate attaches product metadata to a ranked ID list. Products missing
// from the detail lookup keep their bare ID so the ranking stays complete.
func (s *CoVisitScorer) hydrate(ctx context.Context, ranked []ProductScore, reason string) ([]ScoredItem, error) {
	if len(ranked) == 0 {
		return []ScoredItem{}, nil
	}

	ids := make([]string, len(ranked))
	for i, p := range ranked {
		ids[i] = p.ProductID
	}

	details, err := s.provider.ProductDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load product details: %w", err)
	}

	items := make([]ScoredItem, len(ranked))
	for i, p := range ranked {
		item, ok := details[p.ProductID]
		if !ok {
			item = Item{ProductID: p.ProductID}
		}
		items[i] = ScoredItem{Item: item, Score: p.Score, Reason: reason}
	}
	return items, nil
}

// collapseHistory reduces the customer's rows to their distinct product
// set. The returned ID slice is sorted so provider queries and rankings
// are deterministic.
func collapseHistory(history []Interaction) (map[string]struct{}, []string) {
	seen := make(map[string]struct{}, len(history))
	for _, in := range history {
		seen[in.ProductID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return seen, ids
}

// scoreCandidates credits each unseen product with the similarity of
// every co-customer who touched it, scaled by that co-customer's
// interaction confidence.
func scoreCandidates(seen map[string]struct{}, co []Interaction) map[string]float64 {
	// Collapse rows to per-customer product signals, keeping the
	// strongest interaction per product.
	histories := make(map[string]map[string]float64)
	for _, in := range co {
		h := histories[in.CustomerID]
		if h == nil {
			h = make(map[string]float64)
			histories[in.CustomerID] = h
		}
		if c := in.Type.Confidence(); c > h[in.ProductID] {
			h[in.ProductID] = c
		}
	}

	scores := make(map[string]float64)
	for _, h := range histories {
		sim := jaccard(seen, h)
		if sim == 0 {
			continue
		}
		for productID, confidence := range h {
			if _, ok := seen[productID]; ok {
				continue
			}
			scores[productID] += sim * confidence
		}
	}

	return scores
}

// jaccard returns the intersection-over-union of the seed product set
// and a co-customer's product set.
func jaccard(a map[string]struct{}, b map[string]float64) float64 {
	intersection := 0
	for id := range b {
		if _, ok := a[id]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// normalizeScores rescales scores to [0, 1] using min-max normalization.
// All-equal scores collapse to 0.5.
func normalizeScores(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}

	var minScore, maxScore float64
	first := true
	for _, score := range scores {
		if first {
			minScore, maxScore = score, score
			first = false
			continue
		}
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	spread := maxScore - minScore
	if spread == 0 {
		for id := range scores {
			scores[id] = 0.5
		}
		return scores
	}

	for id, score := range scores {
		scores[id] = (score - minScore) / spread
	}

	return scores
}

// rankScores orders scores descending and truncates to k. Ties break on
// product ID so rankings are stable across runs.
func rankScores(scores map[string]float64, k int) []ProductScore {
	ranked := make([]ProductScore, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, ProductScore{ProductID: id, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked
}
