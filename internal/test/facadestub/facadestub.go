// Package facadestub provides stub implementations of the application
// facade for HTTP handler and router tests. It lives apart from the
// repository stubs so that usecase tests can import those without
// pulling the usecase package back in.
package facadestub

import (
	"context"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	"github.com/quadramart/settlement/internal/usecase"
)

// CheckoutFacadeStub mimics the checkout side of the facade for handler tests.
type CheckoutFacadeStub struct {
	PlaceOrderFn func(context.Context, usecase.CheckoutRequest) (*usecase.CheckoutResult, error)
	BuyNowFn     func(context.Context, usecase.CheckoutRequest, int64, int) (*usecase.CheckoutResult, error)
	BuyAgainFn   func(context.Context, usecase.CheckoutRequest, int64) (*usecase.CheckoutResult, error)
}

func stubCheckoutResult() *usecase.CheckoutResult {
	return &usecase.CheckoutResult{
		Order:       &model.Order{ID: 1, Status: model.OrderStatusPending, TotalAmount: money.FromInt64(100000)},
		Items:       []model.OrderItem{{VariantID: 11, ProductID: 21, Quantity: 1, PriceAtTime: money.FromInt64(100000)}},
		ShippingFee: money.Zero(),
	}
}

func (s CheckoutFacadeStub) PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, req)
	}
	return stubCheckoutResult(), nil
}

func (s CheckoutFacadeStub) BuyNow(ctx context.Context, req usecase.CheckoutRequest, variantID int64, qty int) (*usecase.CheckoutResult, error) {
	if s.BuyNowFn != nil {
		return s.BuyNowFn(ctx, req, variantID, qty)
	}
	return stubCheckoutResult(), nil
}

func (s CheckoutFacadeStub) BuyAgain(ctx context.Context, req usecase.CheckoutRequest, orderID int64) (*usecase.CheckoutResult, error) {
	if s.BuyAgainFn != nil {
		return s.BuyAgainFn(ctx, req, orderID)
	}
	return stubCheckoutResult(), nil
}

// OrderFacadeStub mimics order lifecycle operations for handler tests.
type OrderFacadeStub struct {
	OrderFn       func(context.Context, int64, int64) (*model.Order, error)
	OrderItemsFn  func(context.Context, int64, int64) ([]model.OrderItem, error)
	OrdersFn      func(context.Context, int64) ([]model.Order, error)
	UpdateFn      func(context.Context, int64, int64, model.OrderStatus) error
	BatchUpdateFn func(context.Context, int64, []int64, model.OrderStatus) error
	ConfirmFn     func(context.Context, int64, int64) error
	CancelFn      func(context.Context, int64, int64, string) error
	TimelineFn    func(context.Context, int64, int64) ([]model.TimelineEntry, error)
	AddNoteFn     func(context.Context, int64, int64, string) error
}

func (s OrderFacadeStub) Order(ctx context.Context, actorID, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actorID, orderID)
	}
	return &model.Order{ID: orderID, CustomerID: actorID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) OrderItems(ctx context.Context, actorID, orderID int64) ([]model.OrderItem, error) {
	if s.OrderItemsFn != nil {
		return s.OrderItemsFn(ctx, actorID, orderID)
	}
	return nil, nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, customerID)
	}
	return nil, nil
}

func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, target model.OrderStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, actorID, orderID, target)
	}
	return nil
}

func (s OrderFacadeStub) BatchUpdateOrderStatus(ctx context.Context, actorID int64, orderIDs []int64, target model.OrderStatus) error {
	if s.BatchUpdateFn != nil {
		return s.BatchUpdateFn(ctx, actorID, orderIDs, target)
	}
	return nil
}

func (s OrderFacadeStub) ConfirmReceipt(ctx context.Context, actorID, orderID int64) error {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, actorID, orderID)
	}
	return nil
}

func (s OrderFacadeStub) Cancel(ctx context.Context, actorID, orderID int64, reason string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, actorID, orderID, reason)
	}
	return nil
}

func (s OrderFacadeStub) Timeline(ctx context.Context, actorID, orderID int64) ([]model.TimelineEntry, error) {
	if s.TimelineFn != nil {
		return s.TimelineFn(ctx, actorID, orderID)
	}
	return nil, nil
}

func (s OrderFacadeStub) AddNote(ctx context.Context, actorID, orderID int64, note string) error {
	if s.AddNoteFn != nil {
		return s.AddNoteFn(ctx, actorID, orderID, note)
	}
	return nil
}

// DiscountFacadeStub mimics discount operations for handler tests.
type DiscountFacadeStub struct {
	PreviewFn    func(context.Context, int64, string, []model.CartLine) (*usecase.DiscountQuote, error)
	ApplicableFn func(context.Context, int64, []model.CartLine) ([]model.DiscountCode, error)
	CreateFn     func(context.Context, int64, *model.DiscountCode) (*model.DiscountCode, error)
	UpdateFn     func(context.Context, int64, *model.DiscountCode) error
	SetActiveFn  func(context.Context, int64, int64, bool) error
	ListFn       func(context.Context, int64, int64) ([]model.DiscountCode, error)
}

func (s DiscountFacadeStub) PreviewDiscount(ctx context.Context, userID int64, code string, lines []model.CartLine) (*usecase.DiscountQuote, error) {
	if s.PreviewFn != nil {
		return s.PreviewFn(ctx, userID, code, lines)
	}
	return &usecase.DiscountQuote{
		Code:           &model.DiscountCode{ID: 1, Code: code},
		OriginalAmount: money.FromInt64(100000),
		DiscountAmount: money.FromInt64(10000),
		FinalAmount:    money.FromInt64(90000),
	}, nil
}

func (s DiscountFacadeStub) ApplicableDiscounts(ctx context.Context, userID int64, lines []model.CartLine) ([]model.DiscountCode, error) {
	if s.ApplicableFn != nil {
		return s.ApplicableFn(ctx, userID, lines)
	}
	return nil, nil
}

func (s DiscountFacadeStub) CreateDiscount(ctx context.Context, sellerID int64, code *model.DiscountCode) (*model.DiscountCode, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, sellerID, code)
	}
	code.ID = 1
	return code, nil
}

func (s DiscountFacadeStub) UpdateDiscount(ctx context.Context, sellerID int64, code *model.DiscountCode) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, sellerID, code)
	}
	return nil
}

func (s DiscountFacadeStub) SetDiscountActive(ctx context.Context, sellerID, codeID int64, active bool) error {
	if s.SetActiveFn != nil {
		return s.SetActiveFn(ctx, sellerID, codeID, active)
	}
	return nil
}

func (s DiscountFacadeStub) StoreDiscounts(ctx context.Context, sellerID, storeID int64) ([]model.DiscountCode, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, sellerID, storeID)
	}
	return nil, nil
}

// FlashSaleFacadeStub mimics flash sale management for handler tests.
type FlashSaleFacadeStub struct {
	CreateFn func(context.Context, int64, *model.FlashSale) (*model.FlashSale, error)
	UpdateFn func(context.Context, int64, *model.FlashSale) error
	DeleteFn func(context.Context, int64, int64) error
}

func (s FlashSaleFacadeStub) CreateFlashSale(ctx context.Context, sellerID int64, sale *model.FlashSale) (*model.FlashSale, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, sellerID, sale)
	}
	sale.ID = 1
	return sale, nil
}

func (s FlashSaleFacadeStub) UpdateFlashSale(ctx context.Context, sellerID int64, sale *model.FlashSale) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, sellerID, sale)
	}
	return nil
}

func (s FlashSaleFacadeStub) DeleteFlashSale(ctx context.Context, sellerID, saleID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, sellerID, saleID)
	}
	return nil
}

// WalletFacadeStub mimics wallet operations for handler tests.
type WalletFacadeStub struct {
	WalletFn  func(context.Context, int64) (*model.Wallet, error)
	HistoryFn func(context.Context, int64) ([]model.WalletTransaction, error)
	TopUpFn   func(context.Context, int64, money.Amount, string) error
}

func (s WalletFacadeStub) Wallet(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	if s.WalletFn != nil {
		return s.WalletFn(ctx, ownerID)
	}
	return &model.Wallet{ID: 1, OwnerID: ownerID, Balance: money.Zero()}, nil
}

func (s WalletFacadeStub) WalletHistory(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, ownerID)
	}
	return nil, nil
}

func (s WalletFacadeStub) TopUpWallet(ctx context.Context, ownerID int64, amount money.Amount, description string) error {
	if s.TopUpFn != nil {
		return s.TopUpFn(ctx, ownerID, amount, description)
	}
	return nil
}

// PaymentFacadeStub mimics gateway callback dispatch for handler tests.
type PaymentFacadeStub struct {
	SucceededFn func(context.Context, string, string) error
	FailFn      func(context.Context, string, string) error

	Succeeded []string
	Failed    []string
}

func (s *PaymentFacadeStub) PaymentSucceeded(ctx context.Context, reference, gatewayResponse string) error {
	s.Succeeded = append(s.Succeeded, reference)
	if s.SucceededFn != nil {
		return s.SucceededFn(ctx, reference, gatewayResponse)
	}
	return nil
}

func (s *PaymentFacadeStub) FailPayment(ctx context.Context, reference, gatewayResponse string) error {
	s.Failed = append(s.Failed, reference)
	if s.FailFn != nil {
		return s.FailFn(ctx, reference, gatewayResponse)
	}
	return nil
}

// VerifierStub accepts or rejects callback signatures wholesale.
type VerifierStub struct {
	Err error
}

func (s VerifierStub) Verify(body []byte, signature string) error { return s.Err }

// SettlementFacadeStub bundles the per-domain stubs into a full HTTP facade.
type SettlementFacadeStub struct {
	CheckoutFacadeStub
	OrderFacadeStub
	DiscountFacadeStub
	FlashSaleFacadeStub
	WalletFacadeStub
	*PaymentFacadeStub
}

// NewSettlementFacadeStub returns a stub with default behaviour for every
// facade operation.
func NewSettlementFacadeStub() SettlementFacadeStub {
	return SettlementFacadeStub{PaymentFacadeStub: &PaymentFacadeStub{}}
}
