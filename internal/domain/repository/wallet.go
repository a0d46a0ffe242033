package repository

import (
	"context"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// WalletRepository manages wallets and their append-only ledgers.
type WalletRepository interface {
	GetByOwner(ctx context.Context, ownerID int64) (*model.Wallet, error)

	// Transfer applies one settlement operation atomically: both balance
	// updates, both ledger rows and the order status change commit together
	// or not at all. The source wallet must cover the amount.
	Transfer(ctx context.Context, t model.Transfer) error

	// Credit records a single external inflow (top-up) and the matching
	// balance update in one transaction.
	Credit(ctx context.Context, ownerID int64, amount money.Amount, kind model.WalletTransactionKind, orderID *int64, description string) error

	Transactions(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error)
}
