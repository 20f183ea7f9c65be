package store

import (
	"context"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/shopspring/decimal"
)

var _ ProductStore = (*PgStore)(nil)

// PgStore implements ProductStore using PostgreSQL as the data store.
// Each call acquires its own connection from the connector and releases it before returning.
type PgStore struct {
	connector db.Connector
}

// NewPgStore creates a new instance of ProductStore on top of a connector.
func NewPgStore(connector db.Connector) *PgStore {
	return &PgStore{connector: connector}
}

// List retrieves all products ordered by ID.
func (p *PgStore) List(ctx context.Context) ([]db.Product, error) {
	conn, err := p.connector.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	products, err := db.New(conn).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", db.Classify(err))
	}
	return products, nil
}

// Insert adds a new product to the system and returns its ID.
func (p *PgStore) Insert(ctx context.Context, name string, price decimal.Decimal, stock int32) (int64, error) {
	conn, err := p.connector.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	id, err := db.New(conn).Insert(ctx, db.InsertParams{
		Name:  name,
		Price: price,
		Stock: stock,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", db.Classify(err))
	}
	return id, nil
}

// Update replaces the mutable fields of a product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, name string, price decimal.Decimal, stock int32) error {
	conn, err := p.connector.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	count, err := db.New(conn).Update(ctx, db.UpdateParams{
		ID:    id,
		Name:  name,
		Price: price,
		Stock: stock,
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", db.Classify(err))
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Delete removes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Delete(ctx context.Context, id int64) error {
	conn, err := p.connector.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	count, err := db.New(conn).Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", db.Classify(err))
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}
