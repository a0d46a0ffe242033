package repository

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
)

// DeliveryRepository manages delivery assignments.
type DeliveryRepository interface {
	Create(ctx context.Context, a *model.DeliveryAssignment) (*model.DeliveryAssignment, error)
	GetByOrder(ctx context.Context, orderID int64) (*model.DeliveryAssignment, error)
	UpdateStatus(ctx context.Context, assignmentID int64, status model.DeliveryStatus, at time.Time) error
	Cancel(ctx context.Context, assignmentID int64, reason string, at time.Time) error

	// SelectStale returns assignments sitting in the given status since
	// before the cutoff, locked against concurrent scheduler runs.
	SelectStale(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error)
}
