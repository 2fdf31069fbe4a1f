// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// DefaultMongoImage is the MongoDB Docker image used for integration tests.
	DefaultMongoImage = "mongo:7"

	// DefaultMongoPort is the default MongoDB wire protocol port.
	DefaultMongoPort = "27017"

	// DefaultMongoDatabase is the database name seeded for tests.
	DefaultMongoDatabase = "shelfwise_test"
)

// MongoContainer represents a running MongoDB container for testing.
type MongoContainer struct {
	testcontainers.Container
	URI      string
	Database string
}

// MongoOption configures the MongoDB container.
type MongoOption func(*mongoConfig)

type mongoConfig struct {
	image        string
	database     string
	startTimeout time.Duration
}

// WithMongoImage sets a custom MongoDB Docker image.
func WithMongoImage(image string) MongoOption {
	return func(c *mongoConfig) {
		c.image = image
	}
}

// WithMongoDatabase sets the database name reported by the container handle.
func WithMongoDatabase(name string) MongoOption {
	return func(c *mongoConfig) {
		c.database = name
	}
}

// WithMongoStartTimeout sets the timeout for waiting for MongoDB to start.
func WithMongoStartTimeout(timeout time.Duration) MongoOption {
	return func(c *mongoConfig) {
		c.startTimeout = timeout
	}
}

// NewMongoContainer creates and starts a MongoDB container for testing.
//
// Example:
//
//	ctx := context.Background()
//	mongo, err := NewMongoContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer mongo.Terminate(ctx)
//
//	// Use mongo.URI with the driver or config.SourceConfig
func NewMongoContainer(ctx context.Context, opts ...MongoOption) (*MongoContainer, error) {
	cfg := &mongoConfig{
		image:        DefaultMongoImage,
		database:     DefaultMongoDatabase,
		startTimeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultMongoPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultMongoPort+"/tcp"),
			wait.ForLog("Waiting for connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mongodb container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultMongoPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MongoContainer{
		Container: container,
		URI:       fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database:  cfg.database,
	}, nil
}

// Terminate stops and removes the MongoDB container.
func (c *MongoContainer) Terminate(ctx context.Context) error {
	return c.Container.Terminate(ctx)
}

// SeedCollection inserts documents into a collection of the container's
// test database. Documents may be any bson-marshalable values.
func (c *MongoContainer) SeedCollection(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(c.URI))
	if err != nil {
		return fmt.Errorf("connect for seeding: %w", err)
	}
	defer client.Disconnect(ctx) //nolint:errcheck

	if _, err := client.Database(c.Database).Collection(collection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed collection %s: %w", collection, err)
	}

	return nil
}

// DropDatabase removes the test database, resetting the container state
// between test cases that share one container.
func (c *MongoContainer) DropDatabase(ctx context.Context) error {
	client, err := mongo.Connect(options.Client().ApplyURI(c.URI))
	if err != nil {
		return fmt.Errorf("connect for drop: %w", err)
	}
	defer client.Disconnect(ctx) //nolint:errcheck

	if err := client.Database(c.Database).Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", c.Database, err)
	}

	return nil
}

// Logs returns the container logs for debugging.
func (c *MongoContainer) Logs(ctx context.Context) (string, error) {
	reader, err := c.Container.Logs(ctx)
	if err != nil {
		return "", fmt.Errorf("get logs: %w", err)
	}
	defer reader.Close()

	var logs []byte
	buf := make([]byte, 1024)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			logs = append(logs, buf[:n]...)
		}
		if err != nil {
			break
		}
	}

	return string(logs), nil
}
