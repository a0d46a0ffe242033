package handlers

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	"github.com/quadramart/settlement/internal/usecase"
)

// CheckoutFacade exposes order placement operations.
type CheckoutFacade interface {
	PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error)
	BuyNow(ctx context.Context, req usecase.CheckoutRequest, variantID int64, qty int) (*usecase.CheckoutResult, error)
	BuyAgain(ctx context.Context, req usecase.CheckoutRequest, orderID int64) (*usecase.CheckoutResult, error)
}

// OrderFacade exposes order lifecycle operations.
type OrderFacade interface {
	Order(ctx context.Context, actorID, orderID int64) (*model.Order, error)
	OrderItems(ctx context.Context, actorID, orderID int64) ([]model.OrderItem, error)
	Orders(ctx context.Context, customerID int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, actorID, orderID int64, target model.OrderStatus) error
	BatchUpdateOrderStatus(ctx context.Context, actorID int64, orderIDs []int64, target model.OrderStatus) error
	ConfirmReceipt(ctx context.Context, actorID, orderID int64) error
	Cancel(ctx context.Context, actorID, orderID int64, reason string) error
	Timeline(ctx context.Context, actorID, orderID int64) ([]model.TimelineEntry, error)
	AddNote(ctx context.Context, actorID, orderID int64, note string) error
}

// DiscountFacade exposes discount code operations.
type DiscountFacade interface {
	PreviewDiscount(ctx context.Context, userID int64, code string, lines []model.CartLine) (*usecase.DiscountQuote, error)
	ApplicableDiscounts(ctx context.Context, userID int64, lines []model.CartLine) ([]model.DiscountCode, error)
	CreateDiscount(ctx context.Context, sellerID int64, code *model.DiscountCode) (*model.DiscountCode, error)
	UpdateDiscount(ctx context.Context, sellerID int64, code *model.DiscountCode) error
	SetDiscountActive(ctx context.Context, sellerID, codeID int64, active bool) error
	StoreDiscounts(ctx context.Context, sellerID, storeID int64) ([]model.DiscountCode, error)
}

// FlashSaleFacade exposes flash sale management.
type FlashSaleFacade interface {
	CreateFlashSale(ctx context.Context, sellerID int64, sale *model.FlashSale) (*model.FlashSale, error)
	UpdateFlashSale(ctx context.Context, sellerID int64, sale *model.FlashSale) error
	DeleteFlashSale(ctx context.Context, sellerID, saleID int64) error
}

// WalletFacade exposes wallet operations.
type WalletFacade interface {
	Wallet(ctx context.Context, ownerID int64) (*model.Wallet, error)
	WalletHistory(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error)
	TopUpWallet(ctx context.Context, ownerID int64, amount money.Amount, description string) error
}

// PaymentFacade exposes gateway callback dispatch.
type PaymentFacade interface {
	PaymentSucceeded(ctx context.Context, reference, gatewayResponse string) error
	FailPayment(ctx context.Context, reference, gatewayResponse string) error
}

// ReconcilerFacade exposes the sweeps run by the background reconciler.
type ReconcilerFacade interface {
	StaleAssignments(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error)
	StaleOrders(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error)
	StalePayments(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error)
	CancelOrder(ctx context.Context, orderID int64, reason string) error
	ConfirmOrder(ctx context.Context, orderID int64) error
}

// Facade aggregates every application operation the HTTP layer needs.
type Facade interface {
	CheckoutFacade
	OrderFacade
	DiscountFacade
	FlashSaleFacade
	WalletFacade
	PaymentFacade
}
