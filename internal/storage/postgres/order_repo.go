package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, customer_id, store_id, status, payment_method, shipping_method,
                      total_amount, discount_code_id, note, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.StoreID, &o.Status, &o.PaymentMethod, &o.ShippingMethod,
		&o.TotalAmount, &o.DiscountCodeID, &o.Note, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (customer_id, store_id, status, payment_method, shipping_method, total_amount, discount_code_id, note)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.CustomerID, order.StoreID, order.Status, order.PaymentMethod, order.ShippingMethod,
			order.TotalAmount, order.DiscountCodeID, order.Note,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, variant_id, product_id, quantity, price_at_time, flash_sale_id)
                            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.QueryRow(ctx, insertItem,
				order.ID, items[i].VariantID, items[i].ProductID, items[i].Quantity, items[i].PriceAtTime, items[i].FlashSaleID,
			).Scan(&items[i].ID); err != nil {
				return err
			}
		}

		return r.storage.appendTimelineTx(ctx, tx, order.ID, order.Status, "")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
}

func (r *orderRepository) GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, variant_id, product_id, quantity, price_at_time, flash_sale_id
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.ProductID, &it.Quantity, &it.PriceAtTime, &it.FlashSaleID); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.StoreID, &o.Status, &o.PaymentMethod, &o.ShippingMethod,
			&o.TotalAmount, &o.DiscountCodeID, &o.Note, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
		tag, err := tx.Exec(ctx, update, to, orderID, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var current model.OrderStatus
			err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			if err != nil {
				return err
			}
			return domainErrors.ErrConflict
		}
		return r.storage.appendTimelineTx(ctx, tx, orderID, to, "")
	})
}

func (r *orderRepository) AppendNote(ctx context.Context, orderID int64, note string) error {
	const query = `UPDATE orders
                   SET note = CASE WHEN note = '' THEN $1 ELSE note || E'\n' || $1 END,
                       updated_at = NOW()
                   WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, note, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Timeline(ctx context.Context, orderID int64) ([]model.TimelineEntry, error) {
	const query = `SELECT status, note, occurred_at FROM order_timeline
                   WHERE order_id=$1 ORDER BY occurred_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TimelineEntry
	for rows.Next() {
		var e model.TimelineEntry
		if err := rows.Scan(&e.Status, &e.Note, &e.OccurredAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SelectStale(ctx context.Context, status model.OrderStatus, before time.Time, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   WHERE status=$1 AND updated_at < $2
                   ORDER BY updated_at
                   LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, status, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.StoreID, &o.Status, &o.PaymentMethod, &o.ShippingMethod,
			&o.TotalAmount, &o.DiscountCodeID, &o.Note, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
