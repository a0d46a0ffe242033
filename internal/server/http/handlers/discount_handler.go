package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/server/http/dto"
)

// DiscountHandler serves discount code endpoints.
type DiscountHandler struct {
	facade DiscountFacade
}

// NewDiscountHandler constructs DiscountHandler.
func NewDiscountHandler(facade DiscountFacade) *DiscountHandler {
	return &DiscountHandler{facade: facade}
}

// Preview handles POST /api/discounts/preview.
func (h *DiscountHandler) Preview(c *gin.Context) {
	var req dto.PreviewDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	quote, err := h.facade.PreviewDiscount(c.Request.Context(), CurrentUserID(c), req.Code, toCartLines(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DiscountQuoteResponse{
		Code:           quote.Code.Code,
		OriginalAmount: quote.OriginalAmount,
		DiscountAmount: quote.DiscountAmount,
		FinalAmount:    quote.FinalAmount,
	})
}

// Applicable handles POST /api/discounts/applicable.
func (h *DiscountHandler) Applicable(c *gin.Context) {
	var req struct {
		Items []dto.CheckoutLine `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	codes, err := h.facade.ApplicableDiscounts(c.Request.Context(), CurrentUserID(c), toCartLines(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.DiscountCodeResponse, 0, len(codes))
	for i := range codes {
		resp = append(resp, dto.NewDiscountCodeResponse(&codes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/seller/discounts.
func (h *DiscountHandler) Create(c *gin.Context) {
	var req dto.DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	code, err := h.facade.CreateDiscount(c.Request.Context(), CurrentUserID(c), req.ToModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewDiscountCodeResponse(code))
}

// Update handles PUT /api/seller/discounts/:id.
func (h *DiscountHandler) Update(c *gin.Context) {
	codeID, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	code := req.ToModel()
	code.ID = codeID
	if err := h.facade.UpdateDiscount(c.Request.Context(), CurrentUserID(c), code); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// SetActive handles PATCH /api/seller/discounts/:id/active.
func (h *DiscountHandler) SetActive(c *gin.Context) {
	codeID, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.facade.SetDiscountActive(c.Request.Context(), CurrentUserID(c), codeID, *req.Active); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListByStore handles GET /api/seller/stores/:id/discounts.
func (h *DiscountHandler) ListByStore(c *gin.Context) {
	storeID, err := parseID(c)
	if err != nil {
		return
	}
	codes, err := h.facade.StoreDiscounts(c.Request.Context(), CurrentUserID(c), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.DiscountCodeResponse, 0, len(codes))
	for i := range codes {
		resp = append(resp, dto.NewDiscountCodeResponse(&codes[i]))
	}
	c.JSON(http.StatusOK, resp)
}
