package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
)

// OrderUseCase exposes order management to customers and sellers:
// reads, status updates, batch updates, cancellation and notes.
type OrderUseCase struct {
	orders     repository.OrderRepository
	stores     repository.StoreRepository
	settlement *SettlementUseCase
	now        func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, stores repository.StoreRepository, settlement *SettlementUseCase) *OrderUseCase {
	return &OrderUseCase{orders: orders, stores: stores, settlement: settlement, now: time.Now}
}

// Get returns the order when the actor is its customer or the owner of
// the selling store.
func (u *OrderUseCase) Get(ctx context.Context, actorID, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := u.requireParty(ctx, actorID, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Items returns the order's lines, with the same access rule as Get.
func (u *OrderUseCase) Items(ctx context.Context, actorID, orderID int64) ([]model.OrderItem, error) {
	if _, err := u.Get(ctx, actorID, orderID); err != nil {
		return nil, err
	}
	return u.orders.GetItems(ctx, orderID)
}

// ListByCustomer returns the customer's orders sorted by creation time.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// UpdateStatus moves an order forward on behalf of the selling store's
// owner.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, actorID, orderID int64, target model.OrderStatus) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := u.requireStoreOwner(ctx, actorID, order.StoreID); err != nil {
		return err
	}
	return u.settlement.Transition(ctx, orderID, target)
}

// BatchUpdateStatus moves several orders to the same target. All orders
// must currently sit in the same status and belong to the actor's store;
// otherwise nothing is changed.
func (u *OrderUseCase) BatchUpdateStatus(ctx context.Context, actorID int64, orderIDs []int64, target model.OrderStatus) error {
	if len(orderIDs) == 0 {
		return nil
	}
	loaded := make([]*model.Order, 0, len(orderIDs))
	var current model.OrderStatus
	for i, id := range orderIDs {
		order, err := u.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := u.requireStoreOwner(ctx, actorID, order.StoreID); err != nil {
			return err
		}
		if i == 0 {
			current = order.Status
		} else if order.Status != current {
			return &domainErrors.GateError{
				Reason: fmt.Sprintf("order %d is in status %s, expected %s", id, order.Status, current),
			}
		}
		loaded = append(loaded, order)
	}
	if !current.CanTransitionTo(target) {
		return &domainErrors.InvalidTransitionError{From: current, To: target, Allowed: current.AllowedTargets()}
	}
	for _, order := range loaded {
		if err := u.settlement.Transition(ctx, order.ID, target); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmReceipt confirms delivery on behalf of the customer, releasing
// the escrowed payment to the shop. Only the customer may confirm.
func (u *OrderUseCase) ConfirmReceipt(ctx context.Context, actorID, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.CustomerID != actorID {
		return domainErrors.ErrNotOwner
	}
	return u.settlement.Transition(ctx, orderID, model.OrderStatusConfirmed)
}

// Cancel cancels the order with a mandatory reason on behalf of the
// customer or the store owner.
func (u *OrderUseCase) Cancel(ctx context.Context, actorID, orderID int64, reason string) error {
	if reason == "" {
		return domainErrors.ErrMissingCancelReason
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := u.requireParty(ctx, actorID, order); err != nil {
		return err
	}
	return u.settlement.Cancel(ctx, orderID, reason)
}

// Timeline returns the order's status history.
func (u *OrderUseCase) Timeline(ctx context.Context, actorID, orderID int64) ([]model.TimelineEntry, error) {
	if _, err := u.Get(ctx, actorID, orderID); err != nil {
		return nil, err
	}
	return u.orders.Timeline(ctx, orderID)
}

// AddNote appends a timestamped note to the order.
func (u *OrderUseCase) AddNote(ctx context.Context, actorID, orderID int64, note string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := u.requireParty(ctx, actorID, order); err != nil {
		return err
	}
	stamped := fmt.Sprintf("[%s] %s", u.now().Format(time.RFC3339), note)
	return u.orders.AppendNote(ctx, orderID, stamped)
}

// requireParty allows the customer and the store owner.
func (u *OrderUseCase) requireParty(ctx context.Context, actorID int64, order *model.Order) error {
	if order.CustomerID == actorID {
		return nil
	}
	return u.requireStoreOwner(ctx, actorID, order.StoreID)
}

func (u *OrderUseCase) requireStoreOwner(ctx context.Context, actorID, storeID int64) error {
	owner, err := u.stores.OwnerOf(ctx, storeID)
	if err != nil {
		return err
	}
	if owner != actorID {
		return domainErrors.ErrNotOwner
	}
	return nil
}
