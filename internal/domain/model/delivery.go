package model

import "time"

// DeliveryStatus mirrors the delivery sub-states of an assignment.
type DeliveryStatus string

const (
	DeliveryStatusAvailable DeliveryStatus = "AVAILABLE"
	DeliveryStatusAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryStatusPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryStatusInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusConfirmed DeliveryStatus = "CONFIRMED"
	DeliveryStatusCancelled DeliveryStatus = "CANCELLED"
)

// DeliveryAssignment offers an order to shippers and tracks its journey.
type DeliveryAssignment struct {
	ID                 int64
	OrderID            int64
	ShipperID          *int64
	Status             DeliveryStatus
	EstimatedDelivery  time.Time
	AssignedAt         *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	CreatedAt          time.Time
}
