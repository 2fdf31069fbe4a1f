// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package store reads the four source collections from the upstream
// MongoDB document store.
//
// The Reader interface is the boundary the refresh pipeline consumes.
// Client implements it against a live store; FetchBreaker wraps any
// Reader with circuit breaker protection; tests substitute in-memory
// fakes.
//
// Every fetch reads a full collection up to the configured document cap
// (source.max_documents) within the configured timeout
// (source.fetch_timeout). Fetches are read-only; this system never
// writes to the source store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// Reader defines the document store operations the refresh pipeline
// consumes. Implemented by Client for production use and by fakes in
// tests. Thread safe in all implementations.
type Reader interface {
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// FetchInteractions retrieves the interactions collection.
	FetchInteractions(ctx context.Context) ([]InteractionDoc, error)

	// FetchCustomers retrieves the customers collection.
	FetchCustomers(ctx context.Context) ([]CustomerDoc, error)

	// FetchProducts retrieves the products collection.
	FetchProducts(ctx context.Context) ([]ProductDoc, error)

	// FetchCategories retrieves the product categories collection.
	FetchCategories(ctx context.Context) ([]CategoryDoc, error)
}

// Client reads source collections from MongoDB.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    config.SourceConfig
}

var _ Reader = (*Client)(nil)

// New builds a client for the document store described by cfg. The
// driver connects lazily; call Ping to verify reachability.
func New(cfg config.SourceConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to document store: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
	}, nil
}

// Ping verifies the store answers on the primary.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping document store: %w", err)
	}
	return nil
}

// Close disconnects from the store.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect document store: %w", err)
	}
	return nil
}

// FetchInteractions retrieves the interactions collection.
func (c *Client) FetchInteractions(ctx context.Context) ([]InteractionDoc, error) {
	return fetchCollection[InteractionDoc](ctx, c, c.cfg.InteractionsCollection)
}

// FetchCustomers retrieves the customers collection.
func (c *Client) FetchCustomers(ctx context.Context) ([]CustomerDoc, error) {
	return fetchCollection[CustomerDoc](ctx, c, c.cfg.CustomersCollection)
}

// FetchProducts retrieves the products collection.
func (c *Client) FetchProducts(ctx context.Context) ([]ProductDoc, error) {
	return fetchCollection[ProductDoc](ctx, c, c.cfg.ProductsCollection)
}

// FetchCategories retrieves the product categories collection.
func (c *Client) FetchCategories(ctx context.Context) ([]CategoryDoc, error) {
	return fetchCollection[CategoryDoc](ctx, c, c.cfg.CategoriesCollection)
}

// fetchCollection reads a full collection and records fetch metrics.
func fetchCollection[T any](ctx context.Context, c *Client, name string) ([]T, error) {
	if name == "" {
		return nil, errors.New("collection name cannot be empty")
	}

	start := time.Now()
	docs, err := findAll[T](ctx, c, name)
	metrics.RecordStoreFetch(name, time.Since(start), len(docs), err)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("collection", name).
		Int("documents", len(docs)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched collection")

	return docs, nil
}

// findAll queries a collection bounded by the fetch timeout and the
// document cap, decoding every document into T.
func findAll[T any](ctx context.Context, c *Client, name string) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	opts := options.Find()
	if c.cfg.MaxDocuments > 0 {
		opts.SetLimit(c.cfg.MaxDocuments)
	}
	if c.cfg.BatchSize > 0 {
		opts.SetBatchSize(int32(c.cfg.BatchSize))
	}

	cursor, err := c.db.Collection(name).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", name, err)
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logging.Warn().Err(cerr).Str("collection", name).Msg("Failed to close cursor")
		}
	}()

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", name, err)
	}

	return docs, nil
}
