package model

import (
	"time"

	"github.com/quadramart/settlement/internal/pkg/money"
)

// DiscountType selects how a code reduces the price.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// DiscountScope selects what a code applies to.
type DiscountScope string

const (
	DiscountScopeShop     DiscountScope = "SHOP"
	DiscountScopeProducts DiscountScope = "PRODUCTS"
)

// DiscountCode is a voucher issued by a store.
type DiscountCode struct {
	ID               int64
	StoreID          int64
	Code             string
	Description      string
	Type             DiscountType
	Value            money.Amount // percent points for PERCENTAGE, amount for FIXED
	Scope            DiscountScope
	ProductIDs       []int64 // populated when Scope is PRODUCTS
	MinOrderAmount   money.Amount
	MaxDiscountValue *money.Amount // required for PERCENTAGE
	StartAt          time.Time
	EndAt            time.Time
	MaxUses          int
	UsagePerCustomer int
	UsedCount        int
	AutoApply        bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WithinWindow reports whether now falls inside the validity window.
func (d *DiscountCode) WithinWindow(now time.Time) bool {
	return !now.Before(d.StartAt) && !now.After(d.EndAt)
}

// HasUsesLeft reports whether global usage quota remains.
func (d *DiscountCode) HasUsesLeft() bool {
	return d.UsedCount < d.MaxUses
}

// CanUserUse reports whether a customer with the given prior usage count
// may still use the code.
func (d *DiscountCode) CanUserUse(priorUses int) bool {
	return priorUses < d.UsagePerCustomer
}

// AppliesToProduct reports whether the code covers the product.
func (d *DiscountCode) AppliesToProduct(productID int64) bool {
	if d.Scope == DiscountScopeShop {
		return true
	}
	for _, id := range d.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// PercentValue returns the percentage as an int for PERCENTAGE codes.
func (d *DiscountCode) PercentValue() int {
	return int(d.Value.Decimal().IntPart())
}

// UserDiscountUsage records one redemption of a code by a user.
type UserDiscountUsage struct {
	UserID     int64
	DiscountID int64
	UsedAt     time.Time
}

// OrderDiscount is the per-order application record. Its existence guards
// double confirmation and keeps the amounts for audit.
type OrderDiscount struct {
	ID             int64
	OrderID        int64
	DiscountID     int64
	OriginalAmount money.Amount
	DiscountAmount money.Amount
	FinalAmount    money.Amount
	Confirmed      bool
	AppliedAt      time.Time
}
