package repository

import (
	"context"
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
)

// DiscountRepository manages discount codes and their usage records.
type DiscountRepository interface {
	Create(ctx context.Context, code *model.DiscountCode) (*model.DiscountCode, error)
	Update(ctx context.Context, code *model.DiscountCode) error
	GetByID(ctx context.Context, id int64) (*model.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	ListByStore(ctx context.Context, storeID int64) ([]model.DiscountCode, error)
	ListAutoApply(ctx context.Context, storeID int64, now time.Time) ([]model.DiscountCode, error)
	SetActive(ctx context.Context, id int64, active bool) error

	CountUserUsage(ctx context.Context, discountID, userID int64) (int, error)

	// RecordApplication writes the per-order application record at checkout.
	RecordApplication(ctx context.Context, app *model.OrderDiscount) error
	GetApplication(ctx context.Context, orderID int64) (*model.OrderDiscount, error)

	// ConfirmUsage atomically increments used_count (guarded against
	// max_uses), inserts the user usage row bounded by the per-customer
	// limit, and marks the application confirmed. A second call for the
	// same order is a no-op.
	ConfirmUsage(ctx context.Context, orderID, discountID, userID int64) error
}
