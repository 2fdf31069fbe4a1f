// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package store

import "go.mongodb.org/mongo-driver/v2/bson"

// Wire types for the four source collections. BSON tags mirror the
// upstream document fields verbatim, including the upstream's irregular
// spellings (productCatogoryId, productCatrgoryName, AvailableQuantity).
// Do not normalize them here; renaming happens when rows land in staging.
// Every field except _id is optional so sparse documents decode cleanly.

// InteractionDoc is one document of the interactions collection.
type InteractionDoc struct {
	ID              bson.ObjectID  `bson:"_id"`
	CustomerID      *bson.ObjectID `bson:"customerId"`
	ProductID       *bson.ObjectID `bson:"productId"`
	InteractionType *int32         `bson:"interactionType"`
}

// CustomerDoc is one document of the customers collection.
type CustomerDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	FirstName *string       `bson:"customerFirstName"`
	LastName  *string       `bson:"customerLastName"`
	Email     *string       `bson:"email"`
	Phone     *string       `bson:"customerPhoneNumber"`
}

// ProductDoc is one document of the products collection.
type ProductDoc struct {
	ID                bson.ObjectID  `bson:"_id"`
	ProductName       *string        `bson:"productName"`
	Price             *float64       `bson:"price"`
	ImageURL          *string        `bson:"productImage"`
	Description       *string        `bson:"description"`
	CategoryID        *bson.ObjectID `bson:"productCatogoryId"`
	AvailableQuantity *int64         `bson:"AvailableQuantity"`
}

// CategoryDoc is one document of the product categories collection.
type CategoryDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	CategoryName *string       `bson:"productCatrgoryName"`
	CategoryCode *int64        `bson:"productCategoryId"`
}
