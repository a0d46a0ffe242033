package dto

import "github.com/quadramart/settlement/internal/pkg/money"

// CheckoutLine is one cart row in a checkout request.
type CheckoutLine struct {
	VariantID int64 `json:"variant_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// CheckoutRequest places an order from cart lines.
type CheckoutRequest struct {
	Items          []CheckoutLine `json:"items"`
	PaymentMethod  string         `json:"payment_method" binding:"required"`
	ShippingMethod string         `json:"shipping_method" binding:"required"`
	Province       string         `json:"province"`
	DiscountCode   string         `json:"discount_code"`
	Note           string         `json:"note"`
}

// BuyNowRequest places a single-line order.
type BuyNowRequest struct {
	VariantID      int64  `json:"variant_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	ShippingMethod string `json:"shipping_method" binding:"required"`
	Province       string `json:"province"`
	DiscountCode   string `json:"discount_code"`
}

// BuyAgainRequest repeats a finished order.
type BuyAgainRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	ShippingMethod string `json:"shipping_method" binding:"required"`
	Province       string `json:"province"`
}

// CheckoutResponse is the placed order with its pricing breakdown.
type CheckoutResponse struct {
	OrderID        int64        `json:"order_id"`
	Status         string       `json:"status"`
	ItemsTotal     money.Amount `json:"items_total"`
	DiscountAmount money.Amount `json:"discount_amount"`
	ShippingFee    money.Amount `json:"shipping_fee"`
	TotalAmount    money.Amount `json:"total_amount"`
	PaymentURL     string       `json:"payment_url,omitempty"`
	PaymentRef     string       `json:"payment_ref,omitempty"`
}
