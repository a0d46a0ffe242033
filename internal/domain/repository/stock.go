package repository

import (
	"context"

	"github.com/quadramart/settlement/internal/domain/model"
)

// StockRepository is the stock/catalog boundary the settlement core
// depends on.
type StockRepository interface {
	GetVariant(ctx context.Context, variantID int64) (*model.ProductVariant, error)
	StoreOfProduct(ctx context.Context, productID int64) (int64, error)

	// Reserve decrements stock by qty only when enough remains
	// (compare-and-set); otherwise ErrInsufficientStock.
	Reserve(ctx context.Context, variantID int64, qty int) error

	// Release restores previously reserved stock.
	Release(ctx context.Context, variantID int64, qty int) error
}
