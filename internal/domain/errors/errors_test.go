package errors

import (
	stdErrors "errors"
	"strings"
	"testing"

	"github.com/quadramart/settlement/internal/domain/model"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"not owner", ErrNotOwner},
		{"insufficient balance", ErrInsufficientBalance},
		{"insufficient stock", ErrInsufficientStock},
		{"invalid amount", ErrInvalidAmount},
		{"missing cancel reason", ErrMissingCancelReason},
		{"conflict", ErrConflict},
		{"signature mismatch", ErrSignatureMismatch},
		{"discount not applied", ErrDiscountNotApplied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{
		From:    model.OrderStatusDelivered,
		To:      model.OrderStatusPending,
		Allowed: []model.OrderStatus{model.OrderStatusConfirmed},
	}
	msg := err.Error()
	if !strings.Contains(msg, string(model.OrderStatusDelivered)) || !strings.Contains(msg, string(model.OrderStatusPending)) {
		t.Fatalf("expected statuses in message, got %q", msg)
	}
}

func TestCancelNotAllowedError(t *testing.T) {
	err := &CancelNotAllowedError{Status: model.OrderStatusInTransit}
	if !strings.Contains(err.Error(), string(model.OrderStatusInTransit)) {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}

func TestGateError(t *testing.T) {
	err := &GateError{Reason: "the code has expired"}
	if err.Error() != "the code has expired" {
		t.Fatalf("expected gate reason verbatim, got %q", err.Error())
	}
}

func TestQuotaExceededError(t *testing.T) {
	err := &QuotaExceededError{SaleID: 3, Requested: 5, Remaining: 2}
	msg := err.Error()
	if !strings.Contains(msg, "requested 5") || !strings.Contains(msg, "remaining 2") {
		t.Fatalf("expected quota numbers in message, got %q", msg)
	}
}
