// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// fakeProvider serves DataProvider queries from an in-memory interaction
// slice, mirroring what the database CTEs return.
type fakeProvider struct {
	data  []Interaction
	items map[string]Item

	historyErr error
	coErr      error
	topErr     error
	detailsErr error
}

func (f *fakeProvider) CustomerInteractions(_ context.Context, customerID string) ([]Interaction, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []Interaction
	for _, in := range f.data {
		if in.CustomerID == customerID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeProvider) CoCustomerInteractions(_ context.Context, productIDs []string, exclude string) ([]Interaction, error) {
	if f.coErr != nil {
		return nil, f.coErr
	}
	wanted := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	co := make(map[string]struct{})
	for _, in := range f.data {
		if in.CustomerID == exclude {
			continue
		}
		if _, ok := wanted[in.ProductID]; ok {
			co[in.CustomerID] = struct{}{}
		}
	}
	var out []Interaction
	for _, in := range f.data {
		if _, ok := co[in.CustomerID]; ok {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeProvider) TopProducts(_ context.Context, limit int) ([]ProductScore, error) {
	if f.topErr != nil {
		return nil, f.topErr
	}
	sums := make(map[string]float64)
	for _, in := range f.data {
		sums[in.ProductID] += in.Type.Confidence()
	}
	out := make([]ProductScore, 0, len(sums))
	for id, score := range sums {
		out = append(out, ProductScore{ProductID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProvider) ProductDetails(_ context.Context, productIDs []string) (map[string]Item, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	out := make(map[string]Item, len(productIDs))
	for _, id := range productIDs {
		if item, ok := f.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func resultIDs(items []ScoredItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Item.ProductID
	}
	return ids
}

func TestCoVisitScorerKnownCustomer(t *testing.T) {
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionView},
			{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
			{CustomerID: "c3", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c3", ProductID: "p2", Type: InteractionCartAdd},
			{CustomerID: "c4", ProductID: "p9", Type: InteractionPurchase},
		},
		items: map[string]Item{
			"p2": {ProductID: "p2", ProductName: "Espresso Grinder", CategoryName: "Kitchen", CategoryCode: 12},
		},
	}
	scorer := NewCoVisitScorer(provider)

	items, stats, err := scorer.Score(context.Background(), "c1", 5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Score() returned %d items, want 1: %v", len(items), resultIDs(items))
	}
	got := items[0]
	if got.Item.ProductID != "p2" {
		t.Errorf("recommended product = %q, want %q", got.Item.ProductID, "p2")
	}
	if got.Item.ProductName != "Espresso Grinder" {
		t.Errorf("product name = %q, want hydrated metadata", got.Item.ProductName)
	}
	if got.Score != 0.5 {
		t.Errorf("single-candidate score = %v, want 0.5", got.Score)
	}
	if got.Reason == "" {
		t.Error("scored item should carry a reason")
	}

	if stats.Source != SourceCoVisit {
		t.Errorf("stats.Source = %q, want %q", stats.Source, SourceCoVisit)
	}
	if stats.UserInteractions != 1 {
		t.Errorf("stats.UserInteractions = %d, want 1", stats.UserInteractions)
	}
	if stats.Candidates != 1 {
		t.Errorf("stats.Candidates = %d, want 1", stats.Candidates)
	}
}

func TestCoVisitScorerExcludesSeenProducts(t *testing.T) {
	// c1 already touched p1 and p2; only p3 is recommendable.
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c1", ProductID: "p2", Type: InteractionView},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p3", Type: InteractionPurchase},
		},
	}
	scorer := NewCoVisitScorer(provider)

	items, _, err := scorer.Score(context.Background(), "c1", 10)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for _, it := range items {
		if it.Item.ProductID == "p1" || it.Item.ProductID == "p2" {
			t.Errorf("already-seen product %q must not be recommended", it.Item.ProductID)
		}
	}
	if len(items) != 1 || items[0].Item.ProductID != "p3" {
		t.Errorf("recommendations = %v, want [p3]", resultIDs(items))
	}
}

func TestCoVisitScorerDeterministicTieBreak(t *testing.T) {
	// p2 and p3 earn identical scores; order must come from product ID.
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p3", Type: InteractionPurchase},
			{CustomerID: "c3", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c3", ProductID: "p2", Type: InteractionPurchase},
		},
	}
	scorer := NewCoVisitScorer(provider)

	for i := 0; i < 10; i++ {
		items, _, err := scorer.Score(context.Background(), "c1", 5)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		ids := resultIDs(items)
		if len(ids) != 2 || ids[0] != "p2" || ids[1] != "p3" {
			t.Fatalf("iteration %d: recommendations = %v, want [p2 p3]", i, ids)
		}
	}
}

func TestCoVisitScorerTruncatesToCount(t *testing.T) {
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p3", Type: InteractionCartAdd},
			{CustomerID: "c2", ProductID: "p4", Type: InteractionView},
		},
	}
	scorer := NewCoVisitScorer(provider)

	tests := []struct {
		name    string
		count   int
		wantIDs []string
	}{
		{name: "fewer than candidates", count: 2, wantIDs: []string{"p2", "p3"}},
		{name: "exactly candidates", count: 3, wantIDs: []string{"p2", "p3", "p4"}},
		{name: "more than candidates", count: 10, wantIDs: []string{"p2", "p3", "p4"}},
		{name: "zero count", count: 0, wantIDs: []string{}},
		{name: "negative count", count: -1, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _, err := scorer.Score(context.Background(), "c1", tt.count)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			ids := resultIDs(items)
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestCoVisitScorerUnknownCustomerFallsBackToPopularity(t *testing.T) {
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
			{CustomerID: "c3", ProductID: "p2", Type: InteractionView},
			{CustomerID: "c3", ProductID: "p3", Type: InteractionView},
		},
		items: map[string]Item{
			"p1": {ProductID: "p1", ProductName: "Stand Mixer"},
			"p2": {ProductID: "p2", ProductName: "Chef Knife"},
			"p3": {ProductID: "p3", ProductName: "Cutting Board"},
		},
	}
	scorer := NewCoVisitScorer(provider)

	items, stats, err := scorer.Score(context.Background(), "ghost", 5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// Weighted sums: p1 = 2.0, p2 = 1.3, p3 = 0.3.
	ids := resultIDs(items)
	want := []string{"p1", "p2", "p3"}
	if len(ids) != len(want) {
		t.Fatalf("recommendations = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("recommendations = %v, want %v", ids, want)
		}
	}

	if items[0].Score != 1.0 {
		t.Errorf("top popularity score = %v, want 1.0 after normalization", items[0].Score)
	}
	if items[2].Score != 0.0 {
		t.Errorf("bottom popularity score = %v, want 0.0 after normalization", items[2].Score)
	}

	if stats.Source != SourcePopularity {
		t.Errorf("stats.Source = %q, want %q", stats.Source, SourcePopularity)
	}
	if stats.UserInteractions != 0 {
		t.Errorf("stats.UserInteractions = %d, want 0", stats.UserInteractions)
	}
	if stats.Candidates != 3 {
		t.Errorf("stats.Candidates = %d, want 3", stats.Candidates)
	}
}

func TestCoVisitScorerEmptyDataset(t *testing.T) {
	scorer := NewCoVisitScorer(&fakeProvider{})

	items, stats, err := scorer.Score(context.Background(), "anyone", 5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("empty dataset returned %d items, want 0", len(items))
	}
	if items == nil {
		t.Error("items should be an empty slice, not nil")
	}
	if stats.Source != SourcePopularity {
		t.Errorf("stats.Source = %q, want %q", stats.Source, SourcePopularity)
	}
}

func TestCoVisitScorerNoCandidates(t *testing.T) {
	// The only co-customer shares nothing beyond the seed product.
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionView},
		},
	}
	scorer := NewCoVisitScorer(provider)

	items, stats, err := scorer.Score(context.Background(), "c1", 5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %v, want no recommendations", resultIDs(items))
	}
	if stats.Source != SourceCoVisit {
		t.Errorf("stats.Source = %q, want %q", stats.Source, SourceCoVisit)
	}
	if stats.Candidates != 0 {
		t.Errorf("stats.Candidates = %d, want 0", stats.Candidates)
	}
}

func TestCoVisitScorerMissingDetails(t *testing.T) {
	// No metadata for p2; the ranking must still carry the bare ID.
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
		},
	}
	scorer := NewCoVisitScorer(provider)

	items, _, err := scorer.Score(context.Background(), "c1", 5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Item.ProductID != "p2" {
		t.Errorf("product ID = %q, want %q", items[0].Item.ProductID, "p2")
	}
	if items[0].Item.ProductName != "" {
		t.Errorf("product name = %q, want empty for missing metadata", items[0].Item.ProductName)
	}
}

func TestCoVisitScorerProviderErrors(t *testing.T) {
	errBoom := errors.New("boom")
	data := []Interaction{
		{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
		{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
		{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
	}

	tests := []struct {
		name       string
		provider   *fakeProvider
		customerID string
	}{
		{
			name:       "history query fails",
			provider:   &fakeProvider{data: data, historyErr: errBoom},
			customerID: "c1",
		},
		{
			name:       "co-customer query fails",
			provider:   &fakeProvider{data: data, coErr: errBoom},
			customerID: "c1",
		},
		{
			name:       "popularity query fails",
			provider:   &fakeProvider{data: data, topErr: errBoom},
			customerID: "ghost",
		},
		{
			name:       "details query fails",
			provider:   &fakeProvider{data: data, detailsErr: errBoom},
			customerID: "c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewCoVisitScorer(tt.provider)
			_, _, err := scorer.Score(context.Background(), tt.customerID, 5)
			if err == nil {
				t.Fatal("Score() should propagate provider errors")
			}
			if !errors.Is(err, errBoom) {
				t.Errorf("error = %v, want wrapped %v", err, errBoom)
			}
		})
	}
}

func TestCoVisitScorerContextCancelled(t *testing.T) {
	provider := &fakeProvider{
		data: []Interaction{
			{CustomerID: "c1", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p1", Type: InteractionPurchase},
			{CustomerID: "c2", ProductID: "p2", Type: InteractionPurchase},
		},
	}
	scorer := NewCoVisitScorer(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := scorer.Score(ctx, "c1", 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Score() error = %v, want context.Canceled", err)
	}
}

func TestNormalizeScores(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]float64
		want   map[string]float64
	}{
		{
			name:   "empty map",
			scores: map[string]float64{},
			want:   map[string]float64{},
		},
		{
			name:   "single score collapses to middle",
			scores: map[string]float64{"a": 7.3},
			want:   map[string]float64{"a": 0.5},
		},
		{
			name:   "all equal collapse to middle",
			scores: map[string]float64{"a": 2, "b": 2},
			want:   map[string]float64{"a": 0.5, "b": 0.5},
		},
		{
			name:   "spread maps to unit interval",
			scores: map[string]float64{"a": 1, "b": 3, "c": 2},
			want:   map[string]float64{"a": 0, "b": 1, "c": 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeScores(tt.scores)
			if len(got) != len(tt.want) {
				t.Fatalf("normalizeScores() returned %d entries, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("score[%q] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestRankScores(t *testing.T) {
	scores := map[string]float64{"b": 0.5, "a": 0.5, "c": 0.9}

	ranked := rankScores(scores, 10)
	want := []string{"c", "a", "b"}
	if len(ranked) != len(want) {
		t.Fatalf("rankScores() returned %d entries, want %d", len(ranked), len(want))
	}
	for i, id := range want {
		if ranked[i].ProductID != id {
			t.Errorf("rank %d = %q, want %q", i, ranked[i].ProductID, id)
		}
	}

	truncated := rankScores(scores, 2)
	if len(truncated) != 2 || truncated[0].ProductID != "c" || truncated[1].ProductID != "a" {
		t.Errorf("rankScores(k=2) = %v, want [c a]", truncated)
	}
}
