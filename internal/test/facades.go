package test

import (
	"context"
	"sync"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// PublishedStatusChange records one OrderStatusChanged event.
type PublishedStatusChange struct {
	OrderID int64
	From    model.OrderStatus
	To      model.OrderStatus
}

// PublishedSettlement records one PaymentSettled event.
type PublishedSettlement struct {
	OrderID int64
	Kind    model.WalletTransactionKind
	Amount  money.Amount
}

// EventPublisherRecorder captures published events for assertions.
type EventPublisherRecorder struct {
	mu            sync.Mutex
	StatusChanges []PublishedStatusChange
	Settlements   []PublishedSettlement
}

func (r *EventPublisherRecorder) OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StatusChanges = append(r.StatusChanges, PublishedStatusChange{OrderID: order.ID, From: from, To: order.Status})
}

func (r *EventPublisherRecorder) PaymentSettled(ctx context.Context, orderID int64, kind model.WalletTransactionKind, amount money.Amount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Settlements = append(r.Settlements, PublishedSettlement{OrderID: orderID, Kind: kind, Amount: amount})
}

// PaymentGatewayStub simulates the payment provider.
type PaymentGatewayStub struct {
	InitiateFn func(context.Context, string, int64, money.Amount) (string, error)
	Initiated  []string
}

func (s *PaymentGatewayStub) Initiate(ctx context.Context, reference string, orderID int64, amount money.Amount) (string, error) {
	s.Initiated = append(s.Initiated, reference)
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, reference, orderID, amount)
	}
	return "https://pay.example/" + reference, nil
}

// ReconcilerFacadeStub mimics the application facade for worker tests.
type ReconcilerFacadeStub struct {
	StaleAssignmentsFn func(context.Context, model.DeliveryStatus, time.Time, int) ([]model.DeliveryAssignment, error)
	StaleOrdersFn      func(context.Context, model.OrderStatus, time.Time, int) ([]model.Order, error)
	StalePaymentsFn    func(context.Context, time.Time, int) ([]model.PaymentTransaction, error)
	CancelFn           func(context.Context, int64, string) error
	ConfirmFn          func(context.Context, int64) error
	FailPaymentFn      func(context.Context, string, string) error

	mu         sync.Mutex
	Cancelled  []int64
	Confirmed  []int64
	FailedRefs []string
}

// Lock exposes internal mutex for external synchronization.
func (s *ReconcilerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *ReconcilerFacadeStub) Unlock() { s.mu.Unlock() }

func (s *ReconcilerFacadeStub) StaleAssignments(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error) {
	if s.StaleAssignmentsFn != nil {
		return s.StaleAssignmentsFn(ctx, status, before, limit)
	}
	return nil, nil
}

func (s *ReconcilerFacadeStub) StaleOrders(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error) {
	if s.StaleOrdersFn != nil {
		return s.StaleOrdersFn(ctx, status, before, limit)
	}
	return nil, nil
}

func (s *ReconcilerFacadeStub) StalePayments(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error) {
	if s.StalePaymentsFn != nil {
		return s.StalePaymentsFn(ctx, before, limit)
	}
	return nil, nil
}

func (s *ReconcilerFacadeStub) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, reason)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cancelled = append(s.Cancelled, orderID)
	return nil
}

func (s *ReconcilerFacadeStub) ConfirmOrder(ctx context.Context, orderID int64) error {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Confirmed = append(s.Confirmed, orderID)
	return nil
}

func (s *ReconcilerFacadeStub) FailPayment(ctx context.Context, reference, gatewayResponse string) error {
	if s.FailPaymentFn != nil {
		return s.FailPaymentFn(ctx, reference, gatewayResponse)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailedRefs = append(s.FailedRefs, reference)
	return nil
}
