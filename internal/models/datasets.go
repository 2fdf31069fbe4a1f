// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

// InteractionRow represents one row of the published interactions table.
// Nullable columns use pointers so absent source fields survive as JSON null.
type InteractionRow struct {
	ID              string  `json:"id"`
	CustomerID      *string `json:"customer_id"`
	ProductID       *string `json:"product_id"`
	InteractionType *int32  `json:"interaction_type"`
}

// CustomerRow represents one row of the published customers table.
type CustomerRow struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// ProductRow represents one row of the published products table.
type ProductRow struct {
	ID                string   `json:"id"`
	ProductName       *string  `json:"product_name"`
	Price             *float64 `json:"price"`
	ImageURL          *string  `json:"image_url"`
	Description       *string  `json:"description"`
	CategoryID        *string  `json:"category_id"`
	AvailableQuantity *int64   `json:"available_quantity"`
}

// ProductCategoryRow represents one row of the published product_categories table.
type ProductCategoryRow struct {
	ID           string  `json:"id"`
	CategoryName *string `json:"category_name"`
	CategoryCode *int64  `json:"category_code"`
}

// DatasetPage wraps one page of a published dataset with pagination info.
type DatasetPage struct {
	Dataset    string      `json:"dataset"`
	Rows       interface{} `json:"rows"`
	Pagination PageInfo    `json:"pagination"`
}
