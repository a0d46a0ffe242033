package model

import (
	"time"

	"github.com/quadramart/settlement/internal/pkg/money"
)

// Wallet holds funds for one owner. Balance always equals the running sum
// of the wallet's completed ledger entries.
type Wallet struct {
	ID        int64
	OwnerID   int64
	Balance   money.Amount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransactionKind classifies a ledger entry.
type WalletTransactionKind string

const (
	TxnKindTransferIn  WalletTransactionKind = "TRANSFER_IN"
	TxnKindTransferOut WalletTransactionKind = "TRANSFER_OUT"
	TxnKindPayment     WalletTransactionKind = "PAYMENT"
	TxnKindRefund      WalletTransactionKind = "REFUND"
	TxnKindTopUp       WalletTransactionKind = "TOP_UP"
)

// TransactionStatus tracks settlement of a single ledger entry.
type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "PENDING"
	TxnStatusCompleted TransactionStatus = "COMPLETED"
	TxnStatusFailed    TransactionStatus = "FAILED"
)

// WalletTransaction is one append-only ledger entry. Entries are never
// mutated after creation; corrections are new offsetting entries.
type WalletTransaction struct {
	ID          int64
	WalletID    int64
	Amount      money.Amount // signed: negative for outflows
	Kind        WalletTransactionKind
	Status      TransactionStatus
	OrderID     *int64
	Description string
	CreatedAt   time.Time
}

// Transfer describes one escrow movement: a debit on the source wallet and
// a credit on the destination wallet whose signed amounts sum to zero,
// applied atomically together with the order status change.
type Transfer struct {
	OrderID     int64
	FromOwnerID int64
	ToOwnerID   int64
	Amount      money.Amount
	OutKind     WalletTransactionKind
	InKind      WalletTransactionKind
	FromStatus  OrderStatus
	ToStatus    OrderStatus
	Description string
}
