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

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newDiscountUseCase() (*DiscountUseCase, *testhelpers.DiscountRepositoryStub, *testhelpers.StoreRepositoryStub) {
	discounts := testhelpers.NewDiscountRepositoryStub()
	stores := testhelpers.NewStoreRepositoryStub()
	uc := NewDiscountUseCase(discounts, stores)
	uc.now = func() time.Time { return testClock }
	return uc, discounts, stores
}

func validPercentageCode(storeID int64) *model.DiscountCode {
	cap := money.FromInt64(50000)
	return &model.DiscountCode{
		StoreID:          storeID,
		Code:             "SUMMER10",
		Type:             model.DiscountTypePercentage,
		Value:            money.FromInt64(10),
		Scope:            model.DiscountScopeShop,
		MaxDiscountValue: &cap,
		StartAt:          testClock.Add(-time.Hour),
		EndAt:            testClock.Add(time.Hour),
		MaxUses:          100,
		UsagePerCustomer: 1,
		Active:           true,
	}
}

func cartItems(price int64, qty int) []model.OrderItem {
	return []model.OrderItem{{VariantID: 1, ProductID: 1, Quantity: qty, PriceAtTime: money.FromInt64(price)}}
}

func TestCheckUsabilityGateOrder(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()
	items := cartItems(100000, 1)

	cases := []struct {
		name   string
		mutate func(*model.DiscountCode)
		reason string
	}{
		{"inactive", func(c *model.DiscountCode) { c.Active = false }, "discount code is not active"},
		{"expired", func(c *model.DiscountCode) { c.EndAt = testClock.Add(-time.Minute) }, "discount code is not valid at this time"},
		{"exhausted", func(c *model.DiscountCode) { c.UsedCount = c.MaxUses }, "discount code has reached its usage limit"},
		{"below minimum", func(c *model.DiscountCode) { c.MinOrderAmount = money.FromInt64(200000) }, "order total does not meet the minimum for this discount code"},
		{"no covered product", func(c *model.DiscountCode) {
			c.Scope = model.DiscountScopeProducts
			c.ProductIDs = []int64{99}
		}, "discount code does not apply to any product in this order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code := discounts.Add(validPercentageCode(1))
			tc.mutate(code)
			err := uc.CheckUsability(context.Background(), code, 7, 1, items)
			var gate *domainErrors.GateError
			if !errors.As(err, &gate) {
				t.Fatalf("expected gate error, got %v", err)
			}
			if gate.Reason != tc.reason {
				t.Fatalf("unexpected reason %q", gate.Reason)
			}
		})
	}
}

func TestCheckUsabilityRejectsForeignStoreCode(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()
	code := discounts.Add(validPercentageCode(999))

	err := uc.CheckUsability(context.Background(), code, 7, 1, cartItems(100000, 1))
	var gate *domainErrors.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if gate.Reason != "discount code belongs to a different store" {
		t.Fatalf("unexpected reason %q", gate.Reason)
	}
}

func TestPreviewRejectsForeignStoreCode(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()
	discounts.Add(validPercentageCode(999))

	_, err := uc.Preview(context.Background(), 7, 1, "SUMMER10", cartItems(100000, 1))
	var gate *domainErrors.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("expected gate error, got %v", err)
	}
}

func TestCheckUsabilityPerCustomerLimit(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()
	code := discounts.Add(validPercentageCode(1))
	discounts.Usage[code.ID] = 1

	err := uc.CheckUsability(context.Background(), code, 7, 1, cartItems(100000, 1))
	var gate *domainErrors.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if gate.Reason != "you have reached your usage limit for this discount code" {
		t.Fatalf("unexpected reason %q", gate.Reason)
	}
}

func TestCalculatePercentageCappedPerLine(t *testing.T) {
	uc, _, _ := newDiscountUseCase()
	cap := money.FromInt64(5000)
	code := &model.DiscountCode{
		Type:             model.DiscountTypePercentage,
		Value:            money.FromInt64(10),
		Scope:            model.DiscountScopeProducts,
		ProductIDs:       []int64{1, 2},
		MaxDiscountValue: &cap,
	}
	items := []model.OrderItem{
		{ProductID: 1, Quantity: 1, PriceAtTime: money.FromInt64(100000)}, // 10% = 10000, capped at 5000
		{ProductID: 2, Quantity: 1, PriceAtTime: money.FromInt64(30000)},  // 10% = 3000
		{ProductID: 3, Quantity: 1, PriceAtTime: money.FromInt64(500000)}, // not covered
	}
	got := uc.Calculate(code, items)
	if !got.Equal(money.FromInt64(8000)) {
		t.Fatalf("expected 8000, got %s", got)
	}
}

func TestCalculateFixedNeverExceedsCoveredSubtotal(t *testing.T) {
	uc, _, _ := newDiscountUseCase()
	code := &model.DiscountCode{
		Type:  model.DiscountTypeFixed,
		Value: money.FromInt64(50000),
		Scope: model.DiscountScopeShop,
	}
	got := uc.Calculate(code, cartItems(20000, 1))
	if !got.Equal(money.FromInt64(20000)) {
		t.Fatalf("expected 20000, got %s", got)
	}
}

func TestCalculateFixedPerUnitForCoveredProducts(t *testing.T) {
	uc, _, _ := newDiscountUseCase()
	code := &model.DiscountCode{
		Type:       model.DiscountTypeFixed,
		Value:      money.FromInt64(50000),
		Scope:      model.DiscountScopeProducts,
		ProductIDs: []int64{1},
	}
	items := []model.OrderItem{
		{ProductID: 1, Quantity: 3, PriceAtTime: money.FromInt64(200000)},
		{ProductID: 2, Quantity: 1, PriceAtTime: money.FromInt64(500000)}, // not covered
	}
	got := uc.Calculate(code, items)
	if !got.Equal(money.FromInt64(150000)) {
		t.Fatalf("expected 150000 for three covered units, got %s", got)
	}

	// never more than the covered subtotal
	cheap := []model.OrderItem{{ProductID: 1, Quantity: 3, PriceAtTime: money.FromInt64(30000)}}
	got = uc.Calculate(code, cheap)
	if !got.Equal(money.FromInt64(90000)) {
		t.Fatalf("expected 90000, got %s", got)
	}
}

func TestPreviewQuotesUsableCode(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()
	discounts.Add(validPercentageCode(1))

	quote, err := uc.Preview(context.Background(), 7, 1, "SUMMER10", cartItems(100000, 2))
	if err != nil {
		t.Fatalf("preview returned error: %v", err)
	}
	if !quote.OriginalAmount.Equal(money.FromInt64(200000)) {
		t.Fatalf("unexpected original %s", quote.OriginalAmount)
	}
	if !quote.DiscountAmount.Equal(money.FromInt64(20000)) {
		t.Fatalf("unexpected discount %s", quote.DiscountAmount)
	}
	if !quote.FinalAmount.Equal(money.FromInt64(180000)) {
		t.Fatalf("unexpected final %s", quote.FinalAmount)
	}
}

func TestAutoBestPicksLargestDiscount(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()

	small := validPercentageCode(1)
	small.Code = "SMALL"
	small.AutoApply = true
	discounts.Add(small)

	big := validPercentageCode(1)
	big.Code = "BIG"
	big.Value = money.FromInt64(20)
	big.AutoApply = true
	discounts.Add(big)

	quote, err := uc.AutoBest(context.Background(), 7, 1, cartItems(100000, 1))
	if err != nil {
		t.Fatalf("autobest returned error: %v", err)
	}
	if quote == nil || quote.Code.Code != "BIG" {
		t.Fatalf("expected BIG to win, got %+v", quote)
	}
}

func TestAutoBestTieBreaksOnLowerID(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()

	first := validPercentageCode(1)
	first.Code = "FIRST"
	first.AutoApply = true
	discounts.Add(first)

	second := validPercentageCode(1)
	second.Code = "SECOND"
	second.AutoApply = true
	discounts.Add(second)

	quote, err := uc.AutoBest(context.Background(), 7, 1, cartItems(100000, 1))
	if err != nil {
		t.Fatalf("autobest returned error: %v", err)
	}
	if quote == nil || quote.Code.ID != first.ID {
		t.Fatalf("expected code %d to win the tie, got %+v", first.ID, quote)
	}
}

func TestAutoBestSkipsFailingGates(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()

	blocked := validPercentageCode(1)
	blocked.Code = "BLOCKED"
	blocked.AutoApply = true
	blocked.MinOrderAmount = money.FromInt64(1000000)
	discounts.Add(blocked)

	quote, err := uc.AutoBest(context.Background(), 7, 1, cartItems(100000, 1))
	if err != nil {
		t.Fatalf("autobest returned error: %v", err)
	}
	if quote != nil {
		t.Fatalf("expected no quote, got %+v", quote)
	}
}

func TestConfirmUsage(t *testing.T) {
	uc, discounts, _ := newDiscountUseCase()
	code := discounts.Add(validPercentageCode(1))
	discounts.Applications[42] = &model.OrderDiscount{OrderID: 42, DiscountID: code.ID}

	if err := uc.ConfirmUsage(context.Background(), 42, 7); err != nil {
		t.Fatalf("confirm returned error: %v", err)
	}
	if code.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", code.UsedCount)
	}

	// a replay does not count twice
	if err := uc.ConfirmUsage(context.Background(), 42, 7); err != nil {
		t.Fatalf("repeat confirm returned error: %v", err)
	}
	if code.UsedCount != 1 {
		t.Fatalf("expected used count to stay 1, got %d", code.UsedCount)
	}
}

func TestConfirmUsageWithoutApplication(t *testing.T) {
	uc, _, _ := newDiscountUseCase()
	err := uc.ConfirmUsage(context.Background(), 42, 7)
	if !errors.Is(err, domainErrors.ErrDiscountNotApplied) {
		t.Fatalf("expected ErrDiscountNotApplied, got %v", err)
	}
}

func TestCreateCodeValidation(t *testing.T) {
	uc, _, stores := newDiscountUseCase()
	stores.Owners[1] = 5

	code := validPercentageCode(1)
	code.MaxDiscountValue = nil
	if _, err := uc.CreateCode(context.Background(), 5, code); err == nil {
		t.Fatal("expected error for percentage code without cap")
	}

	code = validPercentageCode(1)
	code.EndAt = code.StartAt
	if _, err := uc.CreateCode(context.Background(), 5, code); err == nil {
		t.Fatal("expected error for empty validity window")
	}

	if _, err := uc.CreateCode(context.Background(), 9, validPercentageCode(1)); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	created, err := uc.CreateCode(context.Background(), 5, validPercentageCode(1))
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
}
