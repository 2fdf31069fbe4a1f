// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic testing environments that closely match production.
//
// # MongoDB Container
//
// The MongoContainer provides a real MongoDB instance for testing the source
// store client:
//
//	func TestStoreFetch(t *testing.T) {
//	    ctx := context.Background()
//	    mc, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer mc.Terminate(ctx)
//
//	    err = mc.SeedCollection(ctx, "interactions", docs)
//	    // ...
//
//	    client, err := store.New(config.SourceConfig{
//	        URI:      mc.URI,
//	        Database: mc.Database,
//	        // ...
//	    })
//
//	    // Test against a real MongoDB wire protocol
//	    interactions, err := client.FetchInteractions(ctx)
//	    // ...
//	}
//
// # Benefits Over Mocks
//
// Using real containers exercises the actual driver behavior: BSON decoding of
// sparse documents, cursor batching, server selection timeouts, and the exact
// error shapes the client maps to pipeline errors. Mocks cannot catch drift
// between the wire types and the real collections.
//
// All files in this package carry the integration build tag; the containers
// only run under "go test -tags integration" with Docker available. Use
// SkipIfNoDocker at the top of each test so suites degrade gracefully.
package testinfra
