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

type paymentRepository struct {
	storage *Storage
}

func (r *paymentRepository) Create(ctx context.Context, txn *model.PaymentTransaction) (*model.PaymentTransaction, error) {
	const insert = `INSERT INTO payment_transactions (order_id, reference, amount, method, status, gateway_response)
                    VALUES ($1, $2, $3, $4, $5, $6)
                    RETURNING id, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, insert,
		txn.OrderID, txn.Reference, txn.Amount, txn.Method, txn.Status, txn.GatewayResponse,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return txn, nil
}

func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	const query = `SELECT id, order_id, reference, amount, method, status, gateway_response, paid_at, created_at, updated_at
                   FROM payment_transactions WHERE reference=$1`
	var txn model.PaymentTransaction
	err := r.storage.pool.QueryRow(ctx, query, reference).Scan(
		&txn.ID, &txn.OrderID, &txn.Reference, &txn.Amount, &txn.Method, &txn.Status,
		&txn.GatewayResponse, &txn.PaidAt, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, id int64, gatewayResponse string, paidAt time.Time) error {
	const query = `UPDATE payment_transactions
                   SET status=$1, gateway_response=$2, paid_at=$3, updated_at=NOW()
                   WHERE id=$4`
	tag, err := r.storage.pool.Exec(ctx, query, model.TxnStatusCompleted, gatewayResponse, paidAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, id int64, gatewayResponse string) error {
	const query = `UPDATE payment_transactions
                   SET status=$1, gateway_response=$2, updated_at=NOW()
                   WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, model.TxnStatusFailed, gatewayResponse, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) SelectStalePending(ctx context.Context, before time.Time, limit int) ([]model.PaymentTransaction, error) {
	const query = `SELECT id, order_id, reference, amount, method, status, gateway_response, paid_at, created_at, updated_at
                   FROM payment_transactions
                   WHERE status=$1 AND created_at < $2
                   ORDER BY created_at
                   LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, model.TxnStatusPending, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentTransaction
	for rows.Next() {
		var txn model.PaymentTransaction
		if err := rows.Scan(&txn.ID, &txn.OrderID, &txn.Reference, &txn.Amount, &txn.Method, &txn.Status,
			&txn.GatewayResponse, &txn.PaidAt, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
