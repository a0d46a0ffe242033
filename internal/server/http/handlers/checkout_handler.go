package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	"github.com/quadramart/settlement/internal/server/http/dto"
	"github.com/quadramart/settlement/internal/usecase"
)

// CheckoutHandler serves order placement endpoints.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	result, err := h.facade.PlaceOrder(c.Request.Context(), usecase.CheckoutRequest{
		CustomerID:     CurrentUserID(c),
		Lines:          toCartLines(req.Items),
		PaymentMethod:  model.PaymentMethod(req.PaymentMethod),
		ShippingMethod: model.ShippingMethod(req.ShippingMethod),
		Province:       req.Province,
		DiscountCode:   req.DiscountCode,
		Note:           req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCheckoutResponse(result))
}

// BuyNow handles POST /api/checkout/buy-now.
func (h *CheckoutHandler) BuyNow(c *gin.Context) {
	var req dto.BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	result, err := h.facade.BuyNow(c.Request.Context(), usecase.CheckoutRequest{
		CustomerID:     CurrentUserID(c),
		PaymentMethod:  model.PaymentMethod(req.PaymentMethod),
		ShippingMethod: model.ShippingMethod(req.ShippingMethod),
		Province:       req.Province,
		DiscountCode:   req.DiscountCode,
	}, req.VariantID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCheckoutResponse(result))
}

// BuyAgain handles POST /api/orders/:id/buy-again.
func (h *CheckoutHandler) BuyAgain(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	var req dto.BuyAgainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	result, err := h.facade.BuyAgain(c.Request.Context(), usecase.CheckoutRequest{
		CustomerID:     CurrentUserID(c),
		PaymentMethod:  model.PaymentMethod(req.PaymentMethod),
		ShippingMethod: model.ShippingMethod(req.ShippingMethod),
		Province:       req.Province,
	}, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCheckoutResponse(result))
}

func toCartLines(items []dto.CheckoutLine) []model.CartLine {
	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.CartLine{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return lines
}

func toCheckoutResponse(r *usecase.CheckoutResult) dto.CheckoutResponse {
	itemsTotal := model.ItemsTotal(r.Items)
	resp := dto.CheckoutResponse{
		OrderID:        r.Order.ID,
		Status:         string(r.Order.Status),
		ItemsTotal:     itemsTotal,
		DiscountAmount: money.Zero(),
		ShippingFee:    r.ShippingFee,
		TotalAmount:    r.Order.TotalAmount,
		PaymentURL:     r.PaymentURL,
		PaymentRef:     r.PaymentRef,
	}
	if r.Quote != nil {
		resp.DiscountAmount = r.Quote.DiscountAmount
	}
	return resp
}
