package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

type walletRepository struct {
	storage *Storage
}

func (r *walletRepository) GetByOwner(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	const query = `SELECT id, owner_id, balance, created_at, updated_at FROM wallets WHERE owner_id=$1`
	var w model.Wallet
	err := r.storage.pool.QueryRow(ctx, query, ownerID).Scan(&w.ID, &w.OwnerID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ensureWalletTx creates the owner's wallet on first use and applies the
// balance delta, returning the wallet id.
func ensureWalletTx(ctx context.Context, tx pgx.Tx, ownerID int64, delta money.Amount) (int64, error) {
	const upsert = `INSERT INTO wallets (owner_id, balance)
                    VALUES ($1, $2)
                    ON CONFLICT (owner_id) DO UPDATE
                    SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
                    RETURNING id`
	var walletID int64
	err := tx.QueryRow(ctx, upsert, ownerID, delta).Scan(&walletID)
	return walletID, err
}

func (r *walletRepository) Credit(ctx context.Context, ownerID int64, amount money.Amount, kind model.WalletTransactionKind, orderID *int64, description string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		walletID, err := ensureWalletTx(ctx, tx, ownerID, amount)
		if err != nil {
			return err
		}
		const insert = `INSERT INTO wallet_transactions (wallet_id, amount, kind, status, order_id, description)
                        VALUES ($1, $2, $3, $4, $5, $6)`
		_, err = tx.Exec(ctx, insert, walletID, amount, kind, model.TxnStatusCompleted, orderID, description)
		return err
	})
}

func (r *walletRepository) Transfer(ctx context.Context, t model.Transfer) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockSource = `SELECT id, balance FROM wallets WHERE owner_id=$1 FOR UPDATE`
		var sourceID int64
		var balance money.Amount
		err := tx.QueryRow(ctx, lockSource, t.FromOwnerID).Scan(&sourceID, &balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrInsufficientBalance
			}
			return err
		}
		if balance.LessThan(t.Amount) {
			return domainErrors.ErrInsufficientBalance
		}

		const debit = `UPDATE wallets SET balance = balance - $1, updated_at = NOW() WHERE id=$2`
		if _, err := tx.Exec(ctx, debit, t.Amount, sourceID); err != nil {
			return err
		}
		destID, err := ensureWalletTx(ctx, tx, t.ToOwnerID, t.Amount)
		if err != nil {
			return err
		}

		const insert = `INSERT INTO wallet_transactions (wallet_id, amount, kind, status, order_id, description)
                        VALUES ($1, $2, $3, $4, $5, $6)`
		orderID := t.OrderID
		if _, err := tx.Exec(ctx, insert, sourceID, t.Amount.Neg(), t.OutKind, model.TxnStatusCompleted, &orderID, t.Description); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insert, destID, t.Amount, t.InKind, model.TxnStatusCompleted, &orderID, t.Description); err != nil {
			return err
		}

		const updateOrder = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
		tag, err := tx.Exec(ctx, updateOrder, t.ToStatus, t.OrderID, t.FromStatus)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}
		return r.storage.appendTimelineTx(ctx, tx, t.OrderID, t.ToStatus, t.Description)
	})
}

func (r *walletRepository) Transactions(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error) {
	const query = `SELECT wt.id, wt.wallet_id, wt.amount, wt.kind, wt.status, wt.order_id, wt.description, wt.created_at
                   FROM wallet_transactions wt
                   JOIN wallets w ON w.id = wt.wallet_id
                   WHERE w.owner_id=$1
                   ORDER BY wt.created_at DESC, wt.id DESC`
	rows, err := r.storage.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.WalletTransaction
	for rows.Next() {
		var txn model.WalletTransaction
		if err := rows.Scan(&txn.ID, &txn.WalletID, &txn.Amount, &txn.Kind, &txn.Status, &txn.OrderID, &txn.Description, &txn.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
