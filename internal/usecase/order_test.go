package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

func newOrderFixture() (*OrderUseCase, *settlementFixture) {
	f := newSettlementFixture()
	uc := NewOrderUseCase(f.orders, f.stores, f.uc)
	uc.now = func() time.Time { return testClock }
	return uc, f
}

func TestOrderGetAccessRules(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	order := f.addOrder(model.OrderStatusPending, model.PaymentMethodCOD)

	if _, err := uc.Get(context.Background(), 7, order.ID); err != nil {
		t.Fatalf("customer access denied: %v", err)
	}
	if _, err := uc.Get(context.Background(), 55, order.ID); err != nil {
		t.Fatalf("store owner access denied: %v", err)
	}
	if _, err := uc.Get(context.Background(), 99, order.ID); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stranger, got %v", err)
	}
}

func TestOrderUpdateStatusRequiresStoreOwner(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	order := f.addOrder(model.OrderStatusProcessing, model.PaymentMethodCOD)

	// the customer cannot drive seller-side transitions
	err := uc.UpdateStatus(context.Background(), 7, order.ID, model.OrderStatusConfirmedPreparing)
	if !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := uc.UpdateStatus(context.Background(), 55, order.ID, model.OrderStatusConfirmedPreparing); err != nil {
		t.Fatalf("owner update returned error: %v", err)
	}
	if f.orders.Orders[order.ID].Status != model.OrderStatusConfirmedPreparing {
		t.Fatalf("unexpected status %s", f.orders.Orders[order.ID].Status)
	}
}

func TestBatchUpdateStatusUniformityCheck(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	first := f.addOrder(model.OrderStatusProcessing, model.PaymentMethodCOD)
	second := f.addOrder(model.OrderStatusPending, model.PaymentMethodCOD)

	err := uc.BatchUpdateStatus(context.Background(), 55, []int64{first.ID, second.ID}, model.OrderStatusConfirmedPreparing)
	var gate *domainErrors.GateError
	if !errors.As(err, &gate) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if !strings.Contains(gate.Reason, "expected PROCESSING") {
		t.Fatalf("unexpected reason %q", gate.Reason)
	}
	if f.orders.Orders[first.ID].Status != model.OrderStatusProcessing {
		t.Fatal("no order may change when the batch is rejected")
	}
}

func TestBatchUpdateStatusMovesAllOrders(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	first := f.addOrder(model.OrderStatusProcessing, model.PaymentMethodCOD)
	second := f.addOrder(model.OrderStatusProcessing, model.PaymentMethodCOD)

	if err := uc.BatchUpdateStatus(context.Background(), 55, []int64{first.ID, second.ID}, model.OrderStatusConfirmedPreparing); err != nil {
		t.Fatalf("batch update returned error: %v", err)
	}
	for _, id := range []int64{first.ID, second.ID} {
		if f.orders.Orders[id].Status != model.OrderStatusConfirmedPreparing {
			t.Fatalf("order %d not moved, status %s", id, f.orders.Orders[id].Status)
		}
	}
}

func TestBatchUpdateStatusValidatesTransitionUpFront(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	order := f.addOrder(model.OrderStatusProcessing, model.PaymentMethodCOD)

	err := uc.BatchUpdateStatus(context.Background(), 55, []int64{order.ID}, model.OrderStatusDelivered)
	var invalid *domainErrors.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestConfirmReceiptOnlyByCustomer(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	order := f.addOrder(model.OrderStatusDelivered, model.PaymentMethodCOD)

	// neither strangers nor the store owner can confirm receipt
	if err := uc.ConfirmReceipt(context.Background(), 99, order.ID); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stranger, got %v", err)
	}
	if err := uc.ConfirmReceipt(context.Background(), 55, order.ID); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for store owner, got %v", err)
	}

	if err := uc.ConfirmReceipt(context.Background(), 7, order.ID); err != nil {
		t.Fatalf("customer confirm returned error: %v", err)
	}
	if f.orders.Orders[order.ID].Status != model.OrderStatusConfirmed {
		t.Fatalf("unexpected status %s", f.orders.Orders[order.ID].Status)
	}
}

func TestOrderCancelRequiresReasonAndParty(t *testing.T) {
	uc, f := newOrderFixture()
	f.stores.Owners[3] = 55
	order := f.addOrder(model.OrderStatusPending, model.PaymentMethodCOD)
	f.stock.Variants[11] = &model.ProductVariant{ID: 11, ProductID: 21, StoreID: 3, Stock: 0}

	if err := uc.Cancel(context.Background(), 7, order.ID, ""); !errors.Is(err, domainErrors.ErrMissingCancelReason) {
		t.Fatalf("expected ErrMissingCancelReason, got %v", err)
	}
	if err := uc.Cancel(context.Background(), 99, order.ID, "whatever"); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := uc.Cancel(context.Background(), 7, order.ID, "changed my mind"); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}
}

func TestAddNoteStampsTimestamp(t *testing.T) {
	uc, f := newOrderFixture()
	order := f.addOrder(model.OrderStatusPending, model.PaymentMethodCOD)

	if err := uc.AddNote(context.Background(), 7, order.ID, "leave at the door"); err != nil {
		t.Fatalf("add note returned error: %v", err)
	}
	if len(f.orders.Notes) != 1 {
		t.Fatalf("expected one note, got %d", len(f.orders.Notes))
	}
	want := "[" + testClock.Format(time.RFC3339) + "] leave at the door"
	if f.orders.Notes[0] != want {
		t.Fatalf("unexpected note %q", f.orders.Notes[0])
	}
}
