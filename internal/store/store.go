// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/shopspring/decimal"
)

// ProductStore is an interface for product storage operations.
// Every method runs exactly one statement.
type ProductStore interface {
	// List returns all products ordered by ID.
	// Returns an empty slice if no products exist.
	List(ctx context.Context) ([]db.Product, error)

	// Insert adds a new product and returns the ID assigned by the store.
	Insert(ctx context.Context, name string, price decimal.Decimal, stock int32) (int64, error)

	// Update replaces name, price and stock of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, name string, price decimal.Decimal, stock int32) error

	// Delete removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(ctx context.Context, id int64) error
}
