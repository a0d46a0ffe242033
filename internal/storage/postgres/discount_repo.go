package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

type discountRepository struct {
	storage *Storage
}

const discountColumns = `id, store_id, code, description, type, value, scope, min_order_amount,
                         max_discount_value, start_at, end_at, max_uses, usage_per_customer,
                         used_count, auto_apply, active, created_at, updated_at`

func scanDiscount(row pgx.Row) (*model.DiscountCode, error) {
	var d model.DiscountCode
	err := row.Scan(&d.ID, &d.StoreID, &d.Code, &d.Description, &d.Type, &d.Value, &d.Scope, &d.MinOrderAmount,
		&d.MaxDiscountValue, &d.StartAt, &d.EndAt, &d.MaxUses, &d.UsagePerCustomer,
		&d.UsedCount, &d.AutoApply, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *discountRepository) Create(ctx context.Context, code *model.DiscountCode) (*model.DiscountCode, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insert = `INSERT INTO discount_codes
            (store_id, code, description, type, value, scope, min_order_amount, max_discount_value,
             start_at, end_at, max_uses, usage_per_customer, auto_apply, active)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insert,
			code.StoreID, code.Code, code.Description, code.Type, code.Value, code.Scope,
			code.MinOrderAmount, code.MaxDiscountValue, code.StartAt, code.EndAt,
			code.MaxUses, code.UsagePerCustomer, code.AutoApply, code.Active,
		).Scan(&code.ID, &code.CreatedAt, &code.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		return insertDiscountProductsTx(ctx, tx, code.ID, code.ProductIDs)
	})
	if err != nil {
		return nil, err
	}
	return code, nil
}

func insertDiscountProductsTx(ctx context.Context, tx pgx.Tx, discountID int64, productIDs []int64) error {
	const insert = `INSERT INTO discount_products (discount_id, product_id) VALUES ($1, $2)`
	for _, pid := range productIDs {
		if _, err := tx.Exec(ctx, insert, discountID, pid); err != nil {
			return err
		}
	}
	return nil
}

func (r *discountRepository) Update(ctx context.Context, code *model.DiscountCode) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE discount_codes
            SET description=$1, type=$2, value=$3, scope=$4, min_order_amount=$5, max_discount_value=$6,
                start_at=$7, end_at=$8, max_uses=$9, usage_per_customer=$10, auto_apply=$11, active=$12,
                updated_at=NOW()
            WHERE id=$13`
		tag, err := tx.Exec(ctx, update,
			code.Description, code.Type, code.Value, code.Scope, code.MinOrderAmount, code.MaxDiscountValue,
			code.StartAt, code.EndAt, code.MaxUses, code.UsagePerCustomer, code.AutoApply, code.Active,
			code.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM discount_products WHERE discount_id=$1`, code.ID); err != nil {
			return err
		}
		return insertDiscountProductsTx(ctx, tx, code.ID, code.ProductIDs)
	})
}

func (r *discountRepository) loadProducts(ctx context.Context, d *model.DiscountCode) error {
	if d.Scope != model.DiscountScopeProducts {
		return nil
	}
	const query = `SELECT product_id FROM discount_products WHERE discount_id=$1 ORDER BY product_id`
	rows, err := r.storage.pool.Query(ctx, query, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return err
		}
		d.ProductIDs = append(d.ProductIDs, pid)
	}
	return rows.Err()
}

func (r *discountRepository) GetByID(ctx context.Context, id int64) (*model.DiscountCode, error) {
	const query = `SELECT ` + discountColumns + ` FROM discount_codes WHERE id=$1`
	d, err := scanDiscount(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadProducts(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	const query = `SELECT ` + discountColumns + ` FROM discount_codes WHERE code=$1`
	d, err := scanDiscount(r.storage.pool.QueryRow(ctx, query, code))
	if err != nil {
		return nil, err
	}
	if err := r.loadProducts(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *discountRepository) list(ctx context.Context, query string, args ...any) ([]model.DiscountCode, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DiscountCode
	for rows.Next() {
		var d model.DiscountCode
		if err := rows.Scan(&d.ID, &d.StoreID, &d.Code, &d.Description, &d.Type, &d.Value, &d.Scope, &d.MinOrderAmount,
			&d.MaxDiscountValue, &d.StartAt, &d.EndAt, &d.MaxUses, &d.UsagePerCustomer,
			&d.UsedCount, &d.AutoApply, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadProducts(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *discountRepository) ListByStore(ctx context.Context, storeID int64) ([]model.DiscountCode, error) {
	const query = `SELECT ` + discountColumns + ` FROM discount_codes WHERE store_id=$1 ORDER BY id`
	return r.list(ctx, query, storeID)
}

func (r *discountRepository) ListAutoApply(ctx context.Context, storeID int64, now time.Time) ([]model.DiscountCode, error) {
	const query = `SELECT ` + discountColumns + ` FROM discount_codes
                   WHERE store_id=$1 AND auto_apply AND active AND start_at <= $2 AND end_at >= $2
                   ORDER BY id`
	return r.list(ctx, query, storeID, now)
}

func (r *discountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	const query = `UPDATE discount_codes SET active=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *discountRepository) CountUserUsage(ctx context.Context, discountID, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM user_discounts WHERE discount_id=$1 AND user_id=$2`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, discountID, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *discountRepository) RecordApplication(ctx context.Context, app *model.OrderDiscount) error {
	const insert = `INSERT INTO order_discounts
        (order_id, discount_id, original_amount, discount_amount, final_amount, applied_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	err := r.storage.pool.QueryRow(ctx, insert,
		app.OrderID, app.DiscountID, app.OriginalAmount, app.DiscountAmount, app.FinalAmount, app.AppliedAt,
	).Scan(&app.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *discountRepository) GetApplication(ctx context.Context, orderID int64) (*model.OrderDiscount, error) {
	const query = `SELECT id, order_id, discount_id, original_amount, discount_amount, final_amount, confirmed, applied_at
                   FROM order_discounts WHERE order_id=$1`
	var app model.OrderDiscount
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(
		&app.ID, &app.OrderID, &app.DiscountID, &app.OriginalAmount, &app.DiscountAmount, &app.FinalAmount,
		&app.Confirmed, &app.AppliedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *discountRepository) ConfirmUsage(ctx context.Context, orderID, discountID, userID int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lock = `SELECT confirmed FROM order_discounts WHERE order_id=$1 FOR UPDATE`
		var confirmed bool
		err := tx.QueryRow(ctx, lock, orderID).Scan(&confirmed)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if confirmed {
			return nil
		}

		const consume = `UPDATE discount_codes SET used_count = used_count + 1, updated_at = NOW()
                         WHERE id=$1 AND used_count < max_uses`
		tag, err := tx.Exec(ctx, consume, discountID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}

		const record = `INSERT INTO user_discounts (user_id, discount_id)
                        SELECT $1, $2
                        WHERE (SELECT COUNT(*) FROM user_discounts WHERE user_id=$1 AND discount_id=$2)
                            < (SELECT usage_per_customer FROM discount_codes WHERE id=$2)`
		tag, err = tx.Exec(ctx, record, userID, discountID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}

		const mark = `UPDATE order_discounts SET confirmed=TRUE WHERE order_id=$1`
		_, err = tx.Exec(ctx, mark, orderID)
		return err
	})
}
