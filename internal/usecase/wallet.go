package usecase

import (
	"context"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// WalletUseCase exposes wallet reads and top-ups.
type WalletUseCase struct {
	wallets repository.WalletRepository
}

// NewWalletUseCase constructs WalletUseCase.
func NewWalletUseCase(w repository.WalletRepository) *WalletUseCase {
	return &WalletUseCase{wallets: w}
}

// Summary returns the owner's wallet.
func (u *WalletUseCase) Summary(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	return u.wallets.GetByOwner(ctx, ownerID)
}

// History returns the owner's ledger entries sorted by time.
func (u *WalletUseCase) History(ctx context.Context, ownerID int64) ([]model.WalletTransaction, error) {
	return u.wallets.Transactions(ctx, ownerID)
}

// TopUp credits an external inflow to the owner's wallet. Unlike
// transfers a top-up has no paired debit entry.
func (u *WalletUseCase) TopUp(ctx context.Context, ownerID int64, amount money.Amount, description string) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	return u.wallets.Credit(ctx, ownerID, amount, model.TxnKindTopUp, nil, description)
}
