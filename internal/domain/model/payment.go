package model

import (
	"time"

	"github.com/quadramart/settlement/internal/pkg/money"
)

// PaymentTransaction tracks one payment attempt against the gateway or the
// internal wallet. Reference is the idempotency key the gateway echoes back.
type PaymentTransaction struct {
	ID              int64
	OrderID         int64
	Reference       string
	Amount          money.Amount
	Method          PaymentMethod
	Status          TransactionStatus
	GatewayResponse string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
