package db

import (
	"context"

	"github.com/shopspring/decimal"
)

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const listProducts = `
SELECT id, nombre, precio, stock
FROM productos
ORDER BY id`

func (q *Queries) List(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(&i.ID, &i.Name, &i.Price, &i.Stock); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertProduct = `
INSERT INTO productos (nombre, precio, stock)
VALUES ($1, $2, $3)
RETURNING id`

type InsertParams struct {
	Name  string
	Price decimal.Decimal
	Stock int32
}

func (q *Queries) Insert(ctx context.Context, arg InsertParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, insertProduct, arg.Name, arg.Price, arg.Stock).Scan(&id)
	return id, err
}

const updateProduct = `
UPDATE productos
SET nombre = $2, precio = $3, stock = $4
WHERE id = $1`

type UpdateParams struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int32
}

// Update returns the number of affected rows.
func (q *Queries) Update(ctx context.Context, arg UpdateParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateProduct, arg.ID, arg.Name, arg.Price, arg.Stock)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteProduct = `
DELETE FROM productos
WHERE id = $1`

// Delete returns the number of affected rows.
func (q *Queries) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
