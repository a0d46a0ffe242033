package model

import (
	"time"

	"github.com/quadramart/settlement/internal/pkg/money"
)

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "PENDING"
	OrderStatusProcessing         OrderStatus = "PROCESSING"
	OrderStatusConfirmedPreparing OrderStatus = "CONFIRMED_PREPARING"
	OrderStatusAssignedToShipper  OrderStatus = "ASSIGNED_TO_SHIPPER"
	OrderStatusPickedUp           OrderStatus = "PICKED_UP"
	OrderStatusInTransit          OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered          OrderStatus = "DELIVERED"
	OrderStatusConfirmed          OrderStatus = "CONFIRMED"
	OrderStatusCancelled          OrderStatus = "CANCELLED"
	OrderStatusReturned           OrderStatus = "RETURNED"
)

// orderTransitions lists the legal target statuses per current status.
// Terminal statuses have no row.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:            {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:         {OrderStatusConfirmedPreparing, OrderStatusCancelled},
	OrderStatusConfirmedPreparing: {OrderStatusAssignedToShipper, OrderStatusCancelled},
	OrderStatusAssignedToShipper:  {OrderStatusPickedUp, OrderStatusCancelled},
	OrderStatusPickedUp:           {OrderStatusInTransit, OrderStatusCancelled},
	OrderStatusInTransit:          {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:          {OrderStatusConfirmed, OrderStatusCancelled},
}

// AllowedTargets returns the statuses reachable from s.
func (s OrderStatus) AllowedTargets() []OrderStatus {
	targets := orderTransitions[s]
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the order lifecycle.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// PaymentMethod names how an order is paid.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// Prepaid reports whether the method moves money before delivery, which
// makes the order participate in escrow capture and refunds.
func (m PaymentMethod) Prepaid() bool {
	return m == PaymentMethodWallet || m == PaymentMethodOnline
}

// ShippingMethod names the delivery option chosen at checkout.
type ShippingMethod string

const (
	ShippingMethodStandard ShippingMethod = "STANDARD"
	ShippingMethodExpress  ShippingMethod = "EXPRESS"
)

// Order is the aggregate root of the settlement pipeline.
type Order struct {
	ID             int64
	CustomerID     int64
	StoreID        int64
	Status         OrderStatus
	PaymentMethod  PaymentMethod
	ShippingMethod ShippingMethod
	TotalAmount    money.Amount
	DiscountCodeID *int64
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is one purchased line. PriceAtTime is a purchase-time snapshot
// and is never recalculated from the catalog afterwards. FlashSaleID
// records the sale whose quota the line consumed, so cancellation returns
// the units to that sale and not whichever sale is running later.
type OrderItem struct {
	ID          int64
	OrderID     int64
	VariantID   int64
	ProductID   int64
	Quantity    int
	PriceAtTime money.Amount
	FlashSaleID *int64
}

// Subtotal returns price-at-time times quantity.
func (i OrderItem) Subtotal() money.Amount {
	return i.PriceAtTime.MulInt(i.Quantity)
}

// ItemsTotal sums the subtotals of all items.
func ItemsTotal(items []OrderItem) money.Amount {
	total := money.Zero()
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// TimelineEntry is one step of an order's status history.
type TimelineEntry struct {
	Status     OrderStatus
	OccurredAt time.Time
	Note       string
}
