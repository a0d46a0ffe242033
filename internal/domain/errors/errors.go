package errors

import (
	"errors"
	"fmt"

	"github.com/quadramart/settlement/internal/domain/model"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrNotOwner            = errors.New("not the owner")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrMissingCancelReason = errors.New("cancellation reason is required")
	ErrConflict            = errors.New("concurrent update conflict")
	ErrSignatureMismatch   = errors.New("gateway signature mismatch")
	ErrDiscountNotApplied  = errors.New("order has no discount")
)

// InvalidTransitionError reports an attempt to move an order outside the
// transition table. It names the current status and the allowed targets.
type InvalidTransitionError struct {
	From    model.OrderStatus
	To      model.OrderStatus
	Allowed []model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot update from %s to %s, allowed targets: %v", e.From, e.To, e.Allowed)
}

// CancelNotAllowedError reports a refund-bearing cancellation requested from
// a status past the refund window.
type CancelNotAllowedError struct {
	Status model.OrderStatus
}

func (e *CancelNotAllowedError) Error() string {
	return fmt.Sprintf("order cannot be cancelled while in status %s", e.Status)
}

// GateError carries the human-readable reason of the first failing
// discount validation gate.
type GateError struct {
	Reason string
}

func (e *GateError) Error() string { return e.Reason }

// QuotaExceededError reports a flash-sale reservation past the sale quota.
type QuotaExceededError struct {
	SaleID    int64
	Requested int
	Remaining int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("flash sale %d quota exceeded: requested %d, remaining %d", e.SaleID, e.Requested, e.Remaining)
}
