package db

import "github.com/shopspring/decimal"

// Product is one row of the productos table.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int32
}
