package repository

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
)

// FlashSaleRepository manages sales and their bounded quotas.
type FlashSaleRepository interface {
	Create(ctx context.Context, sale *model.FlashSale) (*model.FlashSale, error)
	Update(ctx context.Context, sale *model.FlashSale) error
	Delete(ctx context.Context, saleID int64) error
	GetByID(ctx context.Context, saleID int64) (*model.FlashSale, error)
	ActiveForProduct(ctx context.Context, productID int64, now time.Time) (*model.FlashSale, error)

	// Reserve increments sold_count by qty only when quota remains; a
	// failed compare-and-set reports how much quota is left.
	Reserve(ctx context.Context, saleID int64, qty int) error

	// Release decrements sold_count by qty with a floor of zero.
	Release(ctx context.Context, saleID int64, qty int) error
}
