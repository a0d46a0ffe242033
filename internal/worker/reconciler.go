package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

// SettlementFacade exposes the subset of application functionality required by the reconciler.
type SettlementFacade interface {
	StaleAssignments(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error)
	StaleOrders(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error)
	StalePayments(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error)
	CancelOrder(ctx context.Context, orderID int64, reason string) error
	ConfirmOrder(ctx context.Context, orderID int64) error
	FailPayment(ctx context.Context, reference, gatewayResponse string) error
}

// Reconciler periodically sweeps orders stuck in transient states:
// deliveries nobody accepted are cancelled, delivered orders the customer
// never confirmed are confirmed, and payments the gateway never answered
// are failed.
type Reconciler struct {
	facade           SettlementFacade
	interval         time.Duration
	batchSize        int
	autoCancelAfter  time.Duration
	autoConfirmAfter time.Duration
	paymentTimeout   time.Duration
	logger           *slog.Logger
	now              func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciliation worker.
func NewReconciler(facade SettlementFacade, interval time.Duration, batchSize int, autoCancelAfter, autoConfirmAfter, paymentTimeout time.Duration, logger *slog.Logger) *Reconciler {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:           facade,
		interval:         interval,
		batchSize:        batchSize,
		autoCancelAfter:  autoCancelAfter,
		autoConfirmAfter: autoConfirmAfter,
		paymentTimeout:   paymentTimeout,
		logger:           logger,
		now:              time.Now,
	}
}

// Start launches background processing.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop waits for the running sweep to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs all reconciliation jobs once.
func (r *Reconciler) Sweep(ctx context.Context) {
	r.cancelUnclaimedDeliveries(ctx)
	r.confirmDeliveredOrders(ctx)
	r.expirePendingPayments(ctx)
}

func (r *Reconciler) cancelUnclaimedDeliveries(ctx context.Context) {
	cutoff := r.now().Add(-r.autoCancelAfter)
	assignments, err := r.facade.StaleAssignments(ctx, model.DeliveryStatusAvailable, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error("fetch unclaimed deliveries failed", slog.String("error", err.Error()))
		return
	}
	for _, a := range assignments {
		if ctx.Err() != nil {
			return
		}
		err := r.facade.CancelOrder(ctx, a.OrderID, "no shipper accepted the delivery in time")
		if err != nil && !errors.Is(err, domainErrors.ErrConflict) {
			r.logger.Error("auto cancel failed",
				slog.Int64("order_id", a.OrderID),
				slog.String("error", err.Error()))
			continue
		}
		r.logger.Info("order auto cancelled", slog.Int64("order_id", a.OrderID))
	}
}

func (r *Reconciler) confirmDeliveredOrders(ctx context.Context) {
	cutoff := r.now().Add(-r.autoConfirmAfter)
	orders, err := r.facade.StaleOrders(ctx, model.OrderStatusDelivered, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error("fetch delivered orders failed", slog.String("error", err.Error()))
		return
	}
	for _, o := range orders {
		if ctx.Err() != nil {
			return
		}
		err := r.facade.ConfirmOrder(ctx, o.ID)
		if err != nil && !errors.Is(err, domainErrors.ErrConflict) {
			r.logger.Error("auto confirm failed",
				slog.Int64("order_id", o.ID),
				slog.String("error", err.Error()))
			continue
		}
		r.logger.Info("order auto confirmed", slog.Int64("order_id", o.ID))
	}
}

func (r *Reconciler) expirePendingPayments(ctx context.Context) {
	cutoff := r.now().Add(-r.paymentTimeout)
	payments, err := r.facade.StalePayments(ctx, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, p := range payments {
		if ctx.Err() != nil {
			return
		}
		if err := r.facade.FailPayment(ctx, p.Reference, "payment timed out"); err != nil {
			r.logger.Error("expire payment failed",
				slog.String("reference", p.Reference),
				slog.String("error", err.Error()))
			continue
		}
		r.logger.Info("payment expired", slog.String("reference", p.Reference))
	}
}
