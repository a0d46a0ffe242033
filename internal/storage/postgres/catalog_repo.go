package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
)

type stockRepository struct {
	storage *Storage
}

func (r *stockRepository) GetVariant(ctx context.Context, variantID int64) (*model.ProductVariant, error) {
	const query = `SELECT id, product_id, store_id, sku, price, stock, active
                   FROM product_variants WHERE id=$1`
	var v model.ProductVariant
	err := r.storage.pool.QueryRow(ctx, query, variantID).Scan(
		&v.ID, &v.ProductID, &v.StoreID, &v.SKU, &v.Price, &v.Stock, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *stockRepository) StoreOfProduct(ctx context.Context, productID int64) (int64, error) {
	const query = `SELECT store_id FROM product_variants WHERE product_id=$1 LIMIT 1`
	var storeID int64
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(&storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNotFound
		}
		return 0, err
	}
	return storeID, nil
}

func (r *stockRepository) Reserve(ctx context.Context, variantID int64, qty int) error {
	const reserve = `UPDATE product_variants SET stock = stock - $1 WHERE id=$2 AND stock >= $1`
	tag, err := r.storage.pool.Exec(ctx, reserve, qty, variantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.storage.pool.QueryRow(ctx, `SELECT TRUE FROM product_variants WHERE id=$1`, variantID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrInsufficientStock
}

func (r *stockRepository) Release(ctx context.Context, variantID int64, qty int) error {
	const release = `UPDATE product_variants SET stock = stock + $1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, release, qty, variantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

type storeRepository struct {
	storage *Storage
}

func (r *storeRepository) OwnerOf(ctx context.Context, storeID int64) (int64, error) {
	var ownerID int64
	err := r.storage.pool.QueryRow(ctx, `SELECT owner_id FROM stores WHERE id=$1`, storeID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

func (r *storeRepository) ProvinceOf(ctx context.Context, storeID int64) (string, error) {
	var province string
	err := r.storage.pool.QueryRow(ctx, `SELECT province FROM stores WHERE id=$1`, storeID).Scan(&province)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrNotFound
		}
		return "", err
	}
	return province, nil
}
