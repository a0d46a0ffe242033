package dto

import (
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// WalletResponse represents a wallet balance.
type WalletResponse struct {
	Balance money.Amount `json:"balance"`
}

// TopUpRequest credits the wallet with an external inflow.
type TopUpRequest struct {
	Amount money.Amount `json:"amount"`
}

// WalletTransactionResponse is one ledger entry.
type WalletTransactionResponse struct {
	ID          int64        `json:"id"`
	Amount      money.Amount `json:"amount"`
	Kind        string       `json:"kind"`
	Status      string       `json:"status"`
	OrderID     *int64       `json:"order_id,omitempty"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewWalletTransactionResponse maps a domain ledger entry.
func NewWalletTransactionResponse(t model.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Kind:        string(t.Kind),
		Status:      string(t.Status),
		OrderID:     t.OrderID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
