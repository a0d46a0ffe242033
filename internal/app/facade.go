package app

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	"github.com/quadramart/settlement/internal/usecase"
)

// SettlementFacade aggregates the use cases behind a single application
// surface shared by the HTTP handlers and the reconciler.
type SettlementFacade struct {
	checkout   *usecase.CheckoutUseCase
	orders     *usecase.OrderUseCase
	settlement *usecase.SettlementUseCase
	discounts  *usecase.DiscountUseCase
	sales      *usecase.FlashSaleUseCase
	wallet     *usecase.WalletUseCase
}

// NewSettlementFacade constructs SettlementFacade.
func NewSettlementFacade(
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	settlement *usecase.SettlementUseCase,
	discounts *usecase.DiscountUseCase,
	sales *usecase.FlashSaleUseCase,
	wallet *usecase.WalletUseCase,
) *SettlementFacade {
	return &SettlementFacade{
		checkout:   checkout,
		orders:     orders,
		settlement: settlement,
		discounts:  discounts,
		sales:      sales,
		wallet:     wallet,
	}
}

// --- checkout ---

func (f *SettlementFacade) PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
	return f.checkout.CreateFromCart(ctx, req)
}

func (f *SettlementFacade) BuyNow(ctx context.Context, req usecase.CheckoutRequest, variantID int64, qty int) (*usecase.CheckoutResult, error) {
	return f.checkout.BuyNow(ctx, req, variantID, qty)
}

func (f *SettlementFacade) BuyAgain(ctx context.Context, req usecase.CheckoutRequest, orderID int64) (*usecase.CheckoutResult, error) {
	return f.checkout.BuyAgain(ctx, req, orderID)
}

// --- orders ---

func (f *SettlementFacade) Order(ctx context.Context, actorID, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, actorID, orderID)
}

func (f *SettlementFacade) OrderItems(ctx context.Context, actorID, orderID int64) ([]model.OrderItem, error) {
	return f.orders.Items(ctx, actorID, orderID)
}

func (f *SettlementFacade) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return f.orders.ListByCustomer(ctx, customerID)
}

func (f *SettlementFacade) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, target model.OrderStatus) error {
	return f.orders.UpdateStatus(ctx, actorID, orderID, target)
}

func (f *SettlementFacade) BatchUpdateOrderStatus(ctx context.Context, actorID int64, orderIDs []int64, target model.OrderStatus) error {
	return f.orders.BatchUpdateStatus(ctx, actorID, orderIDs, target)
}

func (f *SettlementFacade) ConfirmReceipt(ctx context.Context, actorID, orderID int64) error {
	return f.orders.ConfirmReceipt(ctx, actorID, orderID)
}

func (f *SettlementFacade) Cancel(ctx context.Context, actorID, orderID int64, reason string) error {
	return f.orders.Cancel(ctx, actorID, orderID, reason)
}

func (f *SettlementFacade) Timeline(ctx context.Context, actorID, orderID int64) ([]model.TimelineEntry, error) {
	return f.orders.Timeline(ctx, actorID, orderID)
}

func (f *SettlementFacade) AddNote(ctx context.Context, actorID, orderID int64, note string) error {
	return f.orders.AddNote(ctx, actorID, orderID, note)
}

// --- discounts ---

func (f *SettlementFacade) PreviewDiscount(ctx context.Context, userID int64, code string, lines []model.CartLine) (*usecase.DiscountQuote, error) {
	items, storeID, err := f.checkout.PriceLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	return f.discounts.Preview(ctx, userID, storeID, code, items)
}

func (f *SettlementFacade) ApplicableDiscounts(ctx context.Context, userID int64, lines []model.CartLine) ([]model.DiscountCode, error) {
	items, storeID, err := f.checkout.PriceLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	return f.discounts.Applicable(ctx, userID, storeID, items)
}

func (f *SettlementFacade) CreateDiscount(ctx context.Context, sellerID int64, code *model.DiscountCode) (*model.DiscountCode, error) {
	return f.discounts.CreateCode(ctx, sellerID, code)
}

func (f *SettlementFacade) UpdateDiscount(ctx context.Context, sellerID int64, code *model.DiscountCode) error {
	return f.discounts.UpdateCode(ctx, sellerID, code)
}

func (f *SettlementFacade) SetDiscountActive(ctx context.Context, sellerID, codeID int64, active bool) error {
	return f.discounts.SetCodeActive(ctx, sellerID, codeID, active)
}

func (f *SettlementFacade) StoreDiscounts(ctx context.Context, sellerID, storeID int64) ([]model.DiscountCode, error) {
	return f.discounts.ListStoreCodes(ctx, sellerID, storeID)
}

// --- flash sales ---

func (f *SettlementFacade) CreateFlashSale(ctx context.Context, sellerID int64, sale *model.FlashSale) (*model.FlashSale, error) {
	return f.sales.CreateSale(ctx, sellerID, sale)
}

func (f *SettlementFacade) UpdateFlashSale(ctx context.Context, sellerID int64, sale *model.FlashSale) error {
	return f.sales.UpdateSale(ctx, sellerID, sale)
}

func (f *SettlementFacade) DeleteFlashSale(ctx context.Context, sellerID, saleID int64) error {
	return f.sales.DeleteSale(ctx, sellerID, saleID)
}

// --- wallet ---

func (f *SettlementFacade) Wallet(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	return f.wallet.Summary(ctx, ownerID)
}

func (f *SettlementFacade) WalletHistory(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error) {
	return f.wallet.History(ctx, ownerID)
}

func (f *SettlementFacade) TopUpWallet(ctx context.Context, ownerID int64, amount money.Amount, description string) error {
	return f.wallet.TopUp(ctx, ownerID, amount, description)
}

// --- payment callbacks ---

func (f *SettlementFacade) PaymentSucceeded(ctx context.Context, reference, gatewayResponse string) error {
	return f.settlement.HandlePaymentSuccess(ctx, reference, gatewayResponse)
}

func (f *SettlementFacade) FailPayment(ctx context.Context, reference, gatewayResponse string) error {
	return f.settlement.HandlePaymentFailure(ctx, reference, gatewayResponse)
}

// --- reconciliation ---

func (f *SettlementFacade) StaleAssignments(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error) {
	return f.settlement.StaleAssignments(ctx, status, before, limit)
}

func (f *SettlementFacade) StaleOrders(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error) {
	return f.settlement.StaleOrders(ctx, status, before, limit)
}

func (f *SettlementFacade) StalePayments(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error) {
	return f.settlement.StalePayments(ctx, before, limit)
}

func (f *SettlementFacade) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	return f.settlement.Cancel(ctx, orderID, reason)
}

func (f *SettlementFacade) ConfirmOrder(ctx context.Context, orderID int64) error {
	return f.settlement.Transition(ctx, orderID, model.OrderStatusConfirmed)
}
