package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// EventPublisher broadcasts settlement events to interested consumers.
// Implementations must not block the calling goroutine.
type EventPublisher interface {
	OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus)
	PaymentSettled(ctx context.Context, orderID int64, kind model.WalletTransactionKind, amount money.Amount)
}

// refundable lists the statuses a prepaid order may still be cancelled
// from with a refund. Once the parcel is with a shipper the money stays
// in escrow until delivery completes or the order is returned.
var refundable = map[model.OrderStatus]bool{
	model.OrderStatusPending:            true,
	model.OrderStatusProcessing:         true,
	model.OrderStatusConfirmedPreparing: true,
}

const deliveryEstimate = 72 * time.Hour

// SettlementUseCase drives order status transitions and the money
// movements tied to them. All transfers go through the escrow wallet:
// capture on payment, release to the seller on confirmation, refund to
// the customer on cancellation.
type SettlementUseCase struct {
	orders     repository.OrderRepository
	wallets    repository.WalletRepository
	deliveries repository.DeliveryRepository
	payments   repository.PaymentRepository
	stock      repository.StockRepository
	stores     repository.StoreRepository
	discounts  *DiscountUseCase
	sales      *FlashSaleUseCase
	events     EventPublisher

	escrowOwnerID int64
	now           func() time.Time
}

// NewSettlementUseCase constructs SettlementUseCase.
func NewSettlementUseCase(
	orders repository.OrderRepository,
	wallets repository.WalletRepository,
	deliveries repository.DeliveryRepository,
	payments repository.PaymentRepository,
	stock repository.StockRepository,
	stores repository.StoreRepository,
	discounts *DiscountUseCase,
	sales *FlashSaleUseCase,
	events EventPublisher,
	escrowOwnerID int64,
) *SettlementUseCase {
	return &SettlementUseCase{
		orders:        orders,
		wallets:       wallets,
		deliveries:    deliveries,
		payments:      payments,
		stock:         stock,
		stores:        stores,
		discounts:     discounts,
		sales:         sales,
		events:        events,
		escrowOwnerID: escrowOwnerID,
		now:           time.Now,
	}
}

// Transition moves an order to the target status and runs the side
// effects the target requires. A request for the status the order is
// already in is a no-op. Cancellation goes through Cancel because it
// needs a reason.
func (u *SettlementUseCase) Transition(ctx context.Context, orderID int64, target model.OrderStatus) error {
	if target == model.OrderStatusCancelled {
		return domainErrors.ErrMissingCancelReason
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == target {
		return nil
	}
	if !order.Status.CanTransitionTo(target) {
		return &domainErrors.InvalidTransitionError{
			From:    order.Status,
			To:      target,
			Allowed: order.Status.AllowedTargets(),
		}
	}

	from := order.Status
	switch target {
	case model.OrderStatusProcessing:
		err = u.capture(ctx, order)
	case model.OrderStatusConfirmed:
		err = u.release(ctx, order)
	default:
		err = u.orders.UpdateStatus(ctx, order.ID, from, target)
	}
	if err != nil {
		return err
	}
	order.Status = target

	if err := u.runTargetEffects(ctx, order); err != nil {
		return err
	}
	u.events.OrderStatusChanged(ctx, order, from)
	return nil
}

// runTargetEffects performs the non-monetary side effects of arriving at
// a status. These run after the status change committed and are safe to
// repeat.
func (u *SettlementUseCase) runTargetEffects(ctx context.Context, order *model.Order) error {
	switch order.Status {
	case model.OrderStatusConfirmedPreparing:
		if err := u.confirmDiscount(ctx, order); err != nil {
			return err
		}
		return u.ensureAssignment(ctx, order)
	case model.OrderStatusAssignedToShipper:
		return u.syncDelivery(ctx, order.ID, model.DeliveryStatusAssigned)
	case model.OrderStatusPickedUp:
		return u.syncDelivery(ctx, order.ID, model.DeliveryStatusPickedUp)
	case model.OrderStatusInTransit:
		return u.syncDelivery(ctx, order.ID, model.DeliveryStatusInTransit)
	case model.OrderStatusDelivered:
		return u.syncDelivery(ctx, order.ID, model.DeliveryStatusDelivered)
	case model.OrderStatusConfirmed:
		return u.syncDelivery(ctx, order.ID, model.DeliveryStatusConfirmed)
	}
	return nil
}

// capture moves the order total from the customer wallet into escrow.
// Cash on delivery orders carry no funds and only change status.
func (u *SettlementUseCase) capture(ctx context.Context, order *model.Order) error {
	if !order.PaymentMethod.Prepaid() {
		return u.orders.UpdateStatus(ctx, order.ID, order.Status, model.OrderStatusProcessing)
	}
	err := u.wallets.Transfer(ctx, model.Transfer{
		OrderID:     order.ID,
		FromOwnerID: order.CustomerID,
		ToOwnerID:   u.escrowOwnerID,
		Amount:      order.TotalAmount,
		OutKind:     model.TxnKindPayment,
		InKind:      model.TxnKindTransferIn,
		FromStatus:  order.Status,
		ToStatus:    model.OrderStatusProcessing,
		Description: fmt.Sprintf("payment for order %d", order.ID),
	})
	if err != nil {
		return err
	}
	u.events.PaymentSettled(ctx, order.ID, model.TxnKindPayment, order.TotalAmount)
	return nil
}

// release moves the order total from escrow to the store owner.
func (u *SettlementUseCase) release(ctx context.Context, order *model.Order) error {
	if !order.PaymentMethod.Prepaid() {
		return u.orders.UpdateStatus(ctx, order.ID, order.Status, model.OrderStatusConfirmed)
	}
	sellerID, err := u.stores.OwnerOf(ctx, order.StoreID)
	if err != nil {
		return err
	}
	err = u.wallets.Transfer(ctx, model.Transfer{
		OrderID:     order.ID,
		FromOwnerID: u.escrowOwnerID,
		ToOwnerID:   sellerID,
		Amount:      order.TotalAmount,
		OutKind:     model.TxnKindTransferOut,
		InKind:      model.TxnKindTransferIn,
		FromStatus:  order.Status,
		ToStatus:    model.OrderStatusConfirmed,
		Description: fmt.Sprintf("payout for order %d", order.ID),
	})
	if err != nil {
		return err
	}
	u.events.PaymentSettled(ctx, order.ID, model.TxnKindTransferOut, order.TotalAmount)
	return nil
}

// Cancel cancels an order with a mandatory reason, refunds captured
// funds, restores stock and flash sale quota and withdraws the delivery
// assignment. Cancelling an already cancelled order is a no-op.
func (u *SettlementUseCase) Cancel(ctx context.Context, orderID int64, reason string) error {
	if reason == "" {
		return domainErrors.ErrMissingCancelReason
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == model.OrderStatusCancelled {
		return nil
	}
	if order.Status.Terminal() {
		return &domainErrors.CancelNotAllowedError{Status: order.Status}
	}
	if order.PaymentMethod.Prepaid() && !refundable[order.Status] {
		return &domainErrors.CancelNotAllowedError{Status: order.Status}
	}

	from := order.Status
	if order.PaymentMethod.Prepaid() && from != model.OrderStatusPending {
		err = u.wallets.Transfer(ctx, model.Transfer{
			OrderID:     order.ID,
			FromOwnerID: u.escrowOwnerID,
			ToOwnerID:   order.CustomerID,
			Amount:      order.TotalAmount,
			OutKind:     model.TxnKindTransferOut,
			InKind:      model.TxnKindRefund,
			FromStatus:  from,
			ToStatus:    model.OrderStatusCancelled,
			Description: fmt.Sprintf("refund for order %d: %s", order.ID, reason),
		})
		if err == nil {
			u.events.PaymentSettled(ctx, order.ID, model.TxnKindRefund, order.TotalAmount)
		}
	} else {
		err = u.orders.UpdateStatus(ctx, order.ID, from, model.OrderStatusCancelled)
	}
	if err != nil {
		return err
	}
	order.Status = model.OrderStatusCancelled

	if err := u.restoreInventory(ctx, order); err != nil {
		return err
	}
	if err := u.cancelAssignment(ctx, order.ID, reason); err != nil {
		return err
	}
	note := fmt.Sprintf("[%s] cancelled: %s", u.now().Format(time.RFC3339), reason)
	if err := u.orders.AppendNote(ctx, order.ID, note); err != nil {
		return err
	}
	u.events.OrderStatusChanged(ctx, order, from)
	return nil
}

// restoreInventory puts the order's units back on the shelf and returns
// any flash sale quota they consumed.
func (u *SettlementUseCase) restoreInventory(ctx context.Context, order *model.Order) error {
	items, err := u.orders.GetItems(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := u.stock.Release(ctx, it.VariantID, it.Quantity); err != nil {
			return err
		}
		if it.FlashSaleID == nil {
			continue
		}
		if err := u.sales.Release(ctx, *it.FlashSaleID, it.Quantity); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				continue
			}
			return err
		}
	}
	return nil
}

func (u *SettlementUseCase) confirmDiscount(ctx context.Context, order *model.Order) error {
	err := u.discounts.ConfirmUsage(ctx, order.ID, order.CustomerID)
	if errors.Is(err, domainErrors.ErrDiscountNotApplied) {
		return nil
	}
	return err
}

// ensureAssignment creates the delivery assignment once the seller has
// confirmed and started preparing the order.
func (u *SettlementUseCase) ensureAssignment(ctx context.Context, order *model.Order) error {
	_, err := u.deliveries.GetByOrder(ctx, order.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}
	_, err = u.deliveries.Create(ctx, &model.DeliveryAssignment{
		OrderID:           order.ID,
		Status:            model.DeliveryStatusAvailable,
		EstimatedDelivery: u.now().Add(deliveryEstimate),
	})
	return err
}

func (u *SettlementUseCase) syncDelivery(ctx context.Context, orderID int64, status model.DeliveryStatus) error {
	a, err := u.deliveries.GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if a.Status == status {
		return nil
	}
	return u.deliveries.UpdateStatus(ctx, a.ID, status, u.now())
}

func (u *SettlementUseCase) cancelAssignment(ctx context.Context, orderID int64, reason string) error {
	a, err := u.deliveries.GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if a.Status == model.DeliveryStatusCancelled {
		return nil
	}
	return u.deliveries.Cancel(ctx, a.ID, reason, u.now())
}

// StaleAssignments returns delivery assignments sitting in a status since
// before the cutoff.
func (u *SettlementUseCase) StaleAssignments(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error) {
	return u.deliveries.SelectStale(ctx, status, before, limit)
}

// StaleOrders returns orders sitting in a status since before the cutoff.
func (u *SettlementUseCase) StaleOrders(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectStale(ctx, status, before, limit)
}

// StalePayments returns payment transactions still pending since before
// the cutoff.
func (u *SettlementUseCase) StalePayments(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error) {
	return u.payments.SelectStalePending(ctx, before, limit)
}

// HandlePaymentSuccess settles a successful gateway callback: the
// transaction is completed, the paid amount lands in the customer wallet
// as a top-up and the order is captured into escrow. Replayed callbacks
// are no-ops.
func (u *SettlementUseCase) HandlePaymentSuccess(ctx context.Context, reference, gatewayResponse string) error {
	txn, err := u.payments.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if txn.Status == model.TxnStatusCompleted {
		return nil
	}
	if err := u.payments.MarkCompleted(ctx, txn.ID, gatewayResponse, u.now()); err != nil {
		return err
	}
	order, err := u.orders.GetByID(ctx, txn.OrderID)
	if err != nil {
		return err
	}
	err = u.wallets.Credit(ctx, order.CustomerID, txn.Amount, model.TxnKindTopUp, &txn.OrderID,
		fmt.Sprintf("online payment %s", txn.Reference))
	if err != nil {
		return err
	}
	return u.Transition(ctx, txn.OrderID, model.OrderStatusProcessing)
}

// HandlePaymentFailure marks the transaction failed and cancels the
// order, restoring stock and quota. Nothing was captured so there is no
// refund.
func (u *SettlementUseCase) HandlePaymentFailure(ctx context.Context, reference, gatewayResponse string) error {
	txn, err := u.payments.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if txn.Status == model.TxnStatusFailed {
		return nil
	}
	if err := u.payments.MarkFailed(ctx, txn.ID, gatewayResponse); err != nil {
		return err
	}
	return u.Cancel(ctx, txn.OrderID, "payment failed")
}
