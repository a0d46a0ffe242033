package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

type flashSaleRepository struct {
	storage *Storage
}

const flashSaleColumns = `id, product_id, percentage_discount, quantity, sold_count, start_at, end_at, created_at, updated_at`

func scanFlashSale(row pgx.Row) (*model.FlashSale, error) {
	var f model.FlashSale
	err := row.Scan(&f.ID, &f.ProductID, &f.PercentageDiscount, &f.Quantity, &f.SoldCount,
		&f.StartAt, &f.EndAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *flashSaleRepository) Create(ctx context.Context, sale *model.FlashSale) (*model.FlashSale, error) {
	const insert = `INSERT INTO flash_sales (product_id, percentage_discount, quantity, start_at, end_at)
                    VALUES ($1, $2, $3, $4, $5)
                    RETURNING id, sold_count, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, insert,
		sale.ProductID, sale.PercentageDiscount, sale.Quantity, sale.StartAt, sale.EndAt,
	).Scan(&sale.ID, &sale.SoldCount, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *flashSaleRepository) Update(ctx context.Context, sale *model.FlashSale) error {
	const update = `UPDATE flash_sales
                    SET percentage_discount=$1, quantity=$2, start_at=$3, end_at=$4, updated_at=NOW()
                    WHERE id=$5`
	tag, err := r.storage.pool.Exec(ctx, update,
		sale.PercentageDiscount, sale.Quantity, sale.StartAt, sale.EndAt, sale.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *flashSaleRepository) Delete(ctx context.Context, saleID int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM flash_sales WHERE id=$1`, saleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *flashSaleRepository) GetByID(ctx context.Context, saleID int64) (*model.FlashSale, error) {
	const query = `SELECT ` + flashSaleColumns + ` FROM flash_sales WHERE id=$1`
	return scanFlashSale(r.storage.pool.QueryRow(ctx, query, saleID))
}

func (r *flashSaleRepository) ActiveForProduct(ctx context.Context, productID int64, now time.Time) (*model.FlashSale, error) {
	const query = `SELECT ` + flashSaleColumns + ` FROM flash_sales
                   WHERE product_id=$1 AND start_at <= $2 AND end_at >= $2 AND sold_count < quantity
                   ORDER BY percentage_discount DESC, id
                   LIMIT 1`
	return scanFlashSale(r.storage.pool.QueryRow(ctx, query, productID, now))
}

func (r *flashSaleRepository) Reserve(ctx context.Context, saleID int64, qty int) error {
	const reserve = `UPDATE flash_sales
                     SET sold_count = sold_count + $1, updated_at = NOW()
                     WHERE id=$2 AND sold_count + $1 <= quantity`
	tag, err := r.storage.pool.Exec(ctx, reserve, qty, saleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	sale, err := r.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	return &domainErrors.QuotaExceededError{SaleID: saleID, Requested: qty, Remaining: sale.Remaining()}
}

func (r *flashSaleRepository) Release(ctx context.Context, saleID int64, qty int) error {
	const release = `UPDATE flash_sales
                     SET sold_count = GREATEST(sold_count - $1, 0), updated_at = NOW()
                     WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, release, qty, saleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
