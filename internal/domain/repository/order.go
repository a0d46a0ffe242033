package repository

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and items.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)

	// UpdateStatus moves the order from the expected current status to the
	// target status. It fails with ErrConflict when the row is no longer in
	// the expected status, which serializes conflicting transitions.
	UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error

	AppendNote(ctx context.Context, orderID int64, note string) error

	// Timeline returns the recorded status history of the order sorted by
	// time. UpdateStatus appends one entry per successful transition.
	Timeline(ctx context.Context, orderID int64) ([]model.TimelineEntry, error)

	// SelectStale returns up to limit orders that have sat in the given
	// status since before the cutoff, locking them against concurrent
	// scheduler runs.
	SelectStale(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error)
}
