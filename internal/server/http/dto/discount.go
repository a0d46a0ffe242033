package dto

import (
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
)

// DiscountCodeRequest creates or updates a discount code.
type DiscountCodeRequest struct {
	StoreID          int64         `json:"store_id"`
	Code             string        `json:"code" binding:"required"`
	Description      string        `json:"description"`
	Type             string        `json:"type" binding:"required"`
	Value            money.Amount  `json:"value"`
	Scope            string        `json:"scope" binding:"required"`
	ProductIDs       []int64       `json:"product_ids"`
	MinOrderAmount   money.Amount  `json:"min_order_amount"`
	MaxDiscountValue *money.Amount `json:"max_discount_value"`
	StartAt          time.Time     `json:"start_at" binding:"required"`
	EndAt            time.Time     `json:"end_at" binding:"required"`
	MaxUses          int           `json:"max_uses"`
	UsagePerCustomer int           `json:"usage_per_customer"`
	AutoApply        bool          `json:"auto_apply"`
}

// ToModel converts the request into a domain discount code.
func (r DiscountCodeRequest) ToModel() *model.DiscountCode {
	return &model.DiscountCode{
		StoreID:          r.StoreID,
		Code:             r.Code,
		Description:      r.Description,
		Type:             model.DiscountType(r.Type),
		Value:            r.Value,
		Scope:            model.DiscountScope(r.Scope),
		ProductIDs:       r.ProductIDs,
		MinOrderAmount:   r.MinOrderAmount,
		MaxDiscountValue: r.MaxDiscountValue,
		StartAt:          r.StartAt,
		EndAt:            r.EndAt,
		MaxUses:          r.MaxUses,
		UsagePerCustomer: r.UsagePerCustomer,
		AutoApply:        r.AutoApply,
		Active:           true,
	}
}

// DiscountCodeResponse represents one discount code.
type DiscountCodeResponse struct {
	ID               int64         `json:"id"`
	StoreID          int64         `json:"store_id"`
	Code             string        `json:"code"`
	Description      string        `json:"description,omitempty"`
	Type             string        `json:"type"`
	Value            money.Amount  `json:"value"`
	Scope            string        `json:"scope"`
	ProductIDs       []int64       `json:"product_ids,omitempty"`
	MinOrderAmount   money.Amount  `json:"min_order_amount"`
	MaxDiscountValue *money.Amount `json:"max_discount_value,omitempty"`
	StartAt          time.Time     `json:"start_at"`
	EndAt            time.Time     `json:"end_at"`
	MaxUses          int           `json:"max_uses"`
	UsagePerCustomer int           `json:"usage_per_customer"`
	UsedCount        int           `json:"used_count"`
	AutoApply        bool          `json:"auto_apply"`
	Active           bool          `json:"active"`
}

// NewDiscountCodeResponse maps a domain discount code.
func NewDiscountCodeResponse(d *model.DiscountCode) DiscountCodeResponse {
	return DiscountCodeResponse{
		ID:               d.ID,
		StoreID:          d.StoreID,
		Code:             d.Code,
		Description:      d.Description,
		Type:             string(d.Type),
		Value:            d.Value,
		Scope:            string(d.Scope),
		ProductIDs:       d.ProductIDs,
		MinOrderAmount:   d.MinOrderAmount,
		MaxDiscountValue: d.MaxDiscountValue,
		StartAt:          d.StartAt,
		EndAt:            d.EndAt,
		MaxUses:          d.MaxUses,
		UsagePerCustomer: d.UsagePerCustomer,
		UsedCount:        d.UsedCount,
		AutoApply:        d.AutoApply,
		Active:           d.Active,
	}
}

// SetActiveRequest toggles a code on or off.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// PreviewDiscountRequest quotes a code against prospective items.
type PreviewDiscountRequest struct {
	Code  string         `json:"code" binding:"required"`
	Items []CheckoutLine `json:"items" binding:"required"`
}

// DiscountQuoteResponse is the outcome of a preview.
type DiscountQuoteResponse struct {
	Code           string       `json:"code"`
	OriginalAmount money.Amount `json:"original_amount"`
	DiscountAmount money.Amount `json:"discount_amount"`
	FinalAmount    money.Amount `json:"final_amount"`
}
