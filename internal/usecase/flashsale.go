package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// FlashSaleUseCase manages flash sales, their pricing and quota.
type FlashSaleUseCase struct {
	sales   repository.FlashSaleRepository
	stock   repository.StockRepository
	stores  repository.StoreRepository
	retries int
	now     func() time.Time
}

// NewFlashSaleUseCase constructs FlashSaleUseCase.
func NewFlashSaleUseCase(sales repository.FlashSaleRepository, stock repository.StockRepository, stores repository.StoreRepository, retries int) *FlashSaleUseCase {
	if retries < 1 {
		retries = 1
	}
	return &FlashSaleUseCase{sales: sales, stock: stock, stores: stores, retries: retries, now: time.Now}
}

// EffectivePrice returns the price to charge for a variant right now and
// the sale that produced it, if any. Without an active sale the base price
// is returned unchanged.
func (u *FlashSaleUseCase) EffectivePrice(ctx context.Context, variant *model.ProductVariant) (money.Amount, *model.FlashSale, error) {
	sale, err := u.sales.ActiveForProduct(ctx, variant.ProductID, u.now())
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return variant.Price, nil, nil
		}
		return money.Zero(), nil, err
	}
	return variant.Price.ApplyDiscountPercent(sale.PercentageDiscount), sale, nil
}

// Reserve claims qty units of sale quota, retrying a bounded number of
// times when concurrent reservations race on the counter.
func (u *FlashSaleUseCase) Reserve(ctx context.Context, saleID int64, qty int) error {
	var err error
	for attempt := 0; attempt < u.retries; attempt++ {
		err = u.sales.Reserve(ctx, saleID, qty)
		if !errors.Is(err, domainErrors.ErrConflict) {
			return err
		}
	}
	return err
}

// Release returns previously reserved quota to the sale.
func (u *FlashSaleUseCase) Release(ctx context.Context, saleID int64, qty int) error {
	return u.sales.Release(ctx, saleID, qty)
}

// CreateSale validates and stores a new flash sale for a seller.
func (u *FlashSaleUseCase) CreateSale(ctx context.Context, sellerID int64, sale *model.FlashSale) (*model.FlashSale, error) {
	if err := u.requireProductOwner(ctx, sellerID, sale.ProductID); err != nil {
		return nil, err
	}
	if err := validateSale(sale); err != nil {
		return nil, err
	}
	return u.sales.Create(ctx, sale)
}

// UpdateSale validates and persists changes to an existing sale. The sold
// counter is never overwritten.
func (u *FlashSaleUseCase) UpdateSale(ctx context.Context, sellerID int64, sale *model.FlashSale) error {
	existing, err := u.sales.GetByID(ctx, sale.ID)
	if err != nil {
		return err
	}
	if err := u.requireProductOwner(ctx, sellerID, existing.ProductID); err != nil {
		return err
	}
	if sale.Quantity < existing.SoldCount {
		return &domainErrors.GateError{Reason: "quantity cannot drop below the units already sold"}
	}
	if err := validateSale(sale); err != nil {
		return err
	}
	sale.SoldCount = existing.SoldCount
	return u.sales.Update(ctx, sale)
}

// DeleteSale removes a sale that has not started or has ended.
func (u *FlashSaleUseCase) DeleteSale(ctx context.Context, sellerID, saleID int64) error {
	existing, err := u.sales.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if err := u.requireProductOwner(ctx, sellerID, existing.ProductID); err != nil {
		return err
	}
	now := u.now()
	if !now.Before(existing.StartAt) && !now.After(existing.EndAt) {
		return &domainErrors.GateError{Reason: "a running flash sale cannot be deleted"}
	}
	return u.sales.Delete(ctx, saleID)
}

func (u *FlashSaleUseCase) requireProductOwner(ctx context.Context, sellerID, productID int64) error {
	storeID, err := u.stock.StoreOfProduct(ctx, productID)
	if err != nil {
		return err
	}
	owner, err := u.stores.OwnerOf(ctx, storeID)
	if err != nil {
		return err
	}
	if owner != sellerID {
		return domainErrors.ErrNotOwner
	}
	return nil
}

func validateSale(sale *model.FlashSale) error {
	if sale.PercentageDiscount < 1 || sale.PercentageDiscount > 100 {
		return &domainErrors.GateError{Reason: "percentage discount must be between 1 and 100"}
	}
	if sale.Quantity <= 0 {
		return &domainErrors.GateError{Reason: "quantity must be positive"}
	}
	if !sale.EndAt.After(sale.StartAt) {
		return &domainErrors.GateError{Reason: "sale window must end after it starts"}
	}
	return nil
}
