package dto

import (
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// OrderResponse represents one order.
type OrderResponse struct {
	ID             int64        `json:"id"`
	Status         string       `json:"status"`
	PaymentMethod  string       `json:"payment_method"`
	ShippingMethod string       `json:"shipping_method"`
	TotalAmount    money.Amount `json:"total_amount"`
	Note           string       `json:"note,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o *model.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		Status:         string(o.Status),
		PaymentMethod:  string(o.PaymentMethod),
		ShippingMethod: string(o.ShippingMethod),
		TotalAmount:    o.TotalAmount,
		Note:           o.Note,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// OrderItemResponse represents one order line.
type OrderItemResponse struct {
	VariantID   int64        `json:"variant_id"`
	ProductID   int64        `json:"product_id"`
	Quantity    int          `json:"quantity"`
	PriceAtTime money.Amount `json:"price_at_time"`
	Subtotal    money.Amount `json:"subtotal"`
}

// UpdateStatusRequest asks to move an order to a target status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BatchUpdateStatusRequest moves several orders at once.
type BatchUpdateStatusRequest struct {
	OrderIDs []int64 `json:"order_ids" binding:"required"`
	Status   string  `json:"status" binding:"required"`
}

// CancelRequest carries the mandatory cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// NoteRequest appends a note to an order.
type NoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// TimelineEntryResponse is one status history step.
type TimelineEntryResponse struct {
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
