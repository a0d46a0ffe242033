package dto

import (
	"time"

	"github.com/quadramart/settlement/internal/domain/model"
)

// FlashSaleRequest creates or updates a flash sale.
type FlashSaleRequest struct {
	ProductID          int64     `json:"product_id" binding:"required"`
	PercentageDiscount int       `json:"percentage_discount" binding:"required"`
	Quantity           int       `json:"quantity" binding:"required"`
	StartAt            time.Time `json:"start_at" binding:"required"`
	EndAt              time.Time `json:"end_at" binding:"required"`
}

// ToModel converts the request into a domain flash sale.
func (r FlashSaleRequest) ToModel() *model.FlashSale {
	return &model.FlashSale{
		ProductID:          r.ProductID,
		PercentageDiscount: r.PercentageDiscount,
		Quantity:           r.Quantity,
		StartAt:            r.StartAt,
		EndAt:              r.EndAt,
	}
}

// FlashSaleResponse represents one flash sale.
type FlashSaleResponse struct {
	ID                 int64     `json:"id"`
	ProductID          int64     `json:"product_id"`
	PercentageDiscount int       `json:"percentage_discount"`
	Quantity           int       `json:"quantity"`
	SoldCount          int       `json:"sold_count"`
	StartAt            time.Time `json:"start_at"`
	EndAt              time.Time `json:"end_at"`
}

// NewFlashSaleResponse maps a domain flash sale.
func NewFlashSaleResponse(f *model.FlashSale) FlashSaleResponse {
	return FlashSaleResponse{
		ID:                 f.ID,
		ProductID:          f.ProductID,
		PercentageDiscount: f.PercentageDiscount,
		Quantity:           f.Quantity,
		SoldCount:          f.SoldCount,
		StartAt:            f.StartAt,
		EndAt:              f.EndAt,
	}
}
