package model

import "github.com/quadramart/settlement/internal/pkg/money"

// ProductVariant carries the catalog facts the settlement core needs:
// identity, base price and current stock.
type ProductVariant struct {
	ID        int64
	ProductID int64
	StoreID   int64
	SKU       string
	Price     money.Amount
	Stock     int
	Active    bool
}

// CartLine is one selected cart row handed over by the cart service.
type CartLine struct {
	VariantID int64
	Quantity  int
}
