package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	testhelpers "github.com/quadramart/settlement/internal/test"
)

func newFlashSaleUseCase(retries int) (*FlashSaleUseCase, *testhelpers.FlashSaleRepositoryStub, *testhelpers.StockRepositoryStub, *testhelpers.StoreRepositoryStub) {
	sales := testhelpers.NewFlashSaleRepositoryStub()
	stock := testhelpers.NewStockRepositoryStub()
	stores := testhelpers.NewStoreRepositoryStub()
	uc := NewFlashSaleUseCase(sales, stock, stores, retries)
	uc.now = func() time.Time { return testClock }
	return uc, sales, stock, stores
}

func runningSale(productID int64) *model.FlashSale {
	return &model.FlashSale{
		ProductID:          productID,
		PercentageDiscount: 25,
		Quantity:           10,
		StartAt:            testClock.Add(-time.Hour),
		EndAt:              testClock.Add(time.Hour),
	}
}

func TestEffectivePriceWithActiveSale(t *testing.T) {
	uc, sales, _, _ := newFlashSaleUseCase(1)
	sales.Add(runningSale(1))

	variant := &model.ProductVariant{ID: 1, ProductID: 1, Price: money.FromInt64(100000)}
	price, sale, err := uc.EffectivePrice(context.Background(), variant)
	if err != nil {
		t.Fatalf("effective price returned error: %v", err)
	}
	if sale == nil {
		t.Fatal("expected the sale to be reported")
	}
	if !price.Equal(money.FromInt64(75000)) {
		t.Fatalf("expected 75000, got %s", price)
	}
}

func TestEffectivePriceWithoutSale(t *testing.T) {
	uc, _, _, _ := newFlashSaleUseCase(1)
	variant := &model.ProductVariant{ID: 1, ProductID: 1, Price: money.FromInt64(100000)}
	price, sale, err := uc.EffectivePrice(context.Background(), variant)
	if err != nil {
		t.Fatalf("effective price returned error: %v", err)
	}
	if sale != nil {
		t.Fatal("expected no sale")
	}
	if !price.Equal(variant.Price) {
		t.Fatalf("expected base price, got %s", price)
	}
}

func TestReserveRetriesOnConflict(t *testing.T) {
	uc, sales, _, _ := newFlashSaleUseCase(3)
	attempts := 0
	sales.ReserveFn = func(context.Context, int64, int) error {
		attempts++
		if attempts < 3 {
			return domainErrors.ErrConflict
		}
		return nil
	}
	if err := uc.Reserve(context.Background(), 1, 1); err != nil {
		t.Fatalf("reserve returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestReserveQuotaExceeded(t *testing.T) {
	uc, sales, _, _ := newFlashSaleUseCase(1)
	sale := runningSale(1)
	sale.SoldCount = 9
	sales.Add(sale)

	err := uc.Reserve(context.Background(), sale.ID, 2)
	var quota *domainErrors.QuotaExceededError
	if !errors.As(err, &quota) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if quota.Remaining != 1 {
		t.Fatalf("expected remaining 1, got %d", quota.Remaining)
	}
}

func TestUpdateSalePreservesSoldCount(t *testing.T) {
	uc, sales, stock, stores := newFlashSaleUseCase(1)
	stock.Variants[1] = &model.ProductVariant{ID: 1, ProductID: 1, StoreID: 2}
	stores.Owners[2] = 5

	existing := runningSale(1)
	existing.SoldCount = 4
	sales.Add(existing)

	update := runningSale(1)
	update.ID = existing.ID
	update.Quantity = 20
	if err := uc.UpdateSale(context.Background(), 5, update); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if sales.Sales[existing.ID].SoldCount != 4 {
		t.Fatalf("expected sold count preserved, got %d", sales.Sales[existing.ID].SoldCount)
	}

	shrunk := runningSale(1)
	shrunk.ID = existing.ID
	shrunk.Quantity = 3
	err := uc.UpdateSale(context.Background(), 5, shrunk)
	var gate *domainErrors.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("expected gate error for shrinking below sold, got %v", err)
	}
}

func TestDeleteRunningSaleRejected(t *testing.T) {
	uc, sales, stock, stores := newFlashSaleUseCase(1)
	stock.Variants[1] = &model.ProductVariant{ID: 1, ProductID: 1, StoreID: 2}
	stores.Owners[2] = 5

	sale := sales.Add(runningSale(1))
	err := uc.DeleteSale(context.Background(), 5, sale.ID)
	var gate *domainErrors.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("expected gate error, got %v", err)
	}

	ended := runningSale(1)
	ended.StartAt = testClock.Add(-3 * time.Hour)
	ended.EndAt = testClock.Add(-time.Hour)
	sales.Add(ended)
	if err := uc.DeleteSale(context.Background(), 5, ended.ID); err != nil {
		t.Fatalf("delete of ended sale returned error: %v", err)
	}
}

func TestCreateSaleRequiresOwner(t *testing.T) {
	uc, _, stock, stores := newFlashSaleUseCase(1)
	stock.Variants[1] = &model.ProductVariant{ID: 1, ProductID: 1, StoreID: 2}
	stores.Owners[2] = 5

	if _, err := uc.CreateSale(context.Background(), 9, runningSale(1)); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := uc.CreateSale(context.Background(), 5, runningSale(1)); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
}
