// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package pipeline implements the extract, join, project, and clean
// stages that turn the four raw source collections into the feature
// table the recommendation scorer reads.
//
// Stage order is fixed and strictly sequential; each stage writes a
// staging table the next stage reads:
//
//	extract -> stage_interactions, stage_customers,
//	           stage_products, stage_product_categories
//	join    -> stage_aggregated  (three inner joins)
//	project -> stage_processed   (fixed drop list removed)
//	clean   -> stage_features    (column survival, null rows, duplicates)
//
// A successful run ends by publishing every staging table to its
// serving name in a single transaction, then optionally exporting CSV
// snapshots. Empty input at any stage is valid and flows through as
// empty output. The refresh orchestrator (internal/refresh) owns run
// serialization and the freshness record; this package only executes
// one run.
package pipeline
