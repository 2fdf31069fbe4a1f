// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package database wraps the local DuckDB analytics database.
//
// The database holds two classes of tables:
//
//   - Staging tables (stage_*) are rebuilt by each pipeline run. Only the
//     run in flight touches them; readers never see them.
//   - Published tables (interactions, customers, products,
//     product_categories, aggregated, processed, features) are the
//     serving surface. They are replaced atomically by PublishStaging
//     inside a single transaction, so concurrent readers observe either
//     the previous complete artifact set or the new one.
//
// The features table is the only table the recommendation scorer reads;
// Provider implements recommend.DataProvider over it. Dataset reads for
// the API page over the published raw tables.
//
// All queries are context-bounded and recorded in Prometheus metrics
// via metrics.RecordDBQuery.
package database
