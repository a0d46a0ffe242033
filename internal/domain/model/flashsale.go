package model

import "time"

// FlashSale offers a bounded quota of one product at a percentage discount
// inside a time window.
type FlashSale struct {
	ID                 int64
	ProductID          int64
	PercentageDiscount int
	Quantity           int
	SoldCount          int
	StartAt            time.Time
	EndAt              time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ActiveAt reports whether the sale is running and still has quota.
func (f *FlashSale) ActiveAt(now time.Time) bool {
	return !now.Before(f.StartAt) && !now.After(f.EndAt) && f.SoldCount < f.Quantity
}

// Remaining returns unsold quota.
func (f *FlashSale) Remaining() int {
	return f.Quantity - f.SoldCount
}
