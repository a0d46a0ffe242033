package repository

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
)

// PaymentRepository tracks payment transactions keyed by gateway reference.
type PaymentRepository interface {
	Create(ctx context.Context, txn *model.PaymentTransaction) (*model.PaymentTransaction, error)
	GetByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error)
	MarkCompleted(ctx context.Context, id int64, gatewayResponse string, paidAt time.Time) error
	MarkFailed(ctx context.Context, id int64, gatewayResponse string) error
	SelectStalePending(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error)
}
