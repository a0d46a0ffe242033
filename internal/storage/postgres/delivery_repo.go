package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

type deliveryRepository struct {
	storage *Storage
}

const deliveryColumns = `id, order_id, shipper_id, status, estimated_delivery,
                         assigned_at, picked_up_at, delivered_at, cancelled_at, cancellation_reason, created_at`

func scanDelivery(row pgx.Row) (*model.DeliveryAssignment, error) {
	var a model.DeliveryAssignment
	err := row.Scan(&a.ID, &a.OrderID, &a.ShipperID, &a.Status, &a.EstimatedDelivery,
		&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt, &a.CancelledAt, &a.CancellationReason, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *deliveryRepository) Create(ctx context.Context, a *model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	const insert = `INSERT INTO delivery_assignments (order_id, shipper_id, status, estimated_delivery)
                    VALUES ($1, $2, $3, $4)
                    RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, insert, a.OrderID, a.ShipperID, a.Status, a.EstimatedDelivery).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *deliveryRepository) GetByOrder(ctx context.Context, orderID int64) (*model.DeliveryAssignment, error) {
	const query = `SELECT ` + deliveryColumns + ` FROM delivery_assignments WHERE order_id=$1`
	return scanDelivery(r.storage.pool.QueryRow(ctx, query, orderID))
}

// timestampColumn maps a delivery status to the column recording when it
// was reached.
func timestampColumn(status model.DeliveryStatus) string {
	switch status {
	case model.DeliveryStatusAssigned:
		return "assigned_at"
	case model.DeliveryStatusPickedUp:
		return "picked_up_at"
	case model.DeliveryStatusDelivered, model.DeliveryStatusConfirmed:
		return "delivered_at"
	}
	return ""
}

func (r *deliveryRepository) UpdateStatus(ctx context.Context, assignmentID int64, status model.DeliveryStatus, at time.Time) error {
	query := `UPDATE delivery_assignments SET status=$1 WHERE id=$2`
	args := []any{status, assignmentID}
	if col := timestampColumn(status); col != "" {
		query = `UPDATE delivery_assignments SET status=$1, ` + col + `=COALESCE(` + col + `, $3) WHERE id=$2`
		args = append(args, at)
	}
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *deliveryRepository) Cancel(ctx context.Context, assignmentID int64, reason string, at time.Time) error {
	const query = `UPDATE delivery_assignments
                   SET status=$1, cancelled_at=$2, cancellation_reason=$3
                   WHERE id=$4`
	tag, err := r.storage.pool.Exec(ctx, query, model.DeliveryStatusCancelled, at, reason, assignmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *deliveryRepository) SelectStale(ctx context.Context, status model.DeliveryStatus, before time.Time, limit int) ([]model.DeliveryAssignment, error) {
	const query = `SELECT ` + deliveryColumns + ` FROM delivery_assignments
                   WHERE status=$1 AND created_at < $2
                   ORDER BY created_at
                   LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, status, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DeliveryAssignment
	for rows.Next() {
		var a model.DeliveryAssignment
		if err := rows.Scan(&a.ID, &a.OrderID, &a.ShipperID, &a.Status, &a.EstimatedDelivery,
			&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt, &a.CancelledAt, &a.CancellationReason, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
