package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/server/http/dto"
)

// FlashSaleHandler serves flash sale management endpoints.
type FlashSaleHandler struct {
	facade FlashSaleFacade
}

// NewFlashSaleHandler constructs FlashSaleHandler.
func NewFlashSaleHandler(facade FlashSaleFacade) *FlashSaleHandler {
	return &FlashSaleHandler{facade: facade}
}

// Create handles POST /api/seller/flash-sales.
func (h *FlashSaleHandler) Create(c *gin.Context) {
	var req dto.FlashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	sale, err := h.facade.CreateFlashSale(c.Request.Context(), CurrentUserID(c), req.ToModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFlashSaleResponse(sale))
}

// Update handles PUT /api/seller/flash-sales/:id.
func (h *FlashSaleHandler) Update(c *gin.Context) {
	saleID, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.FlashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	sale := req.ToModel()
	sale.ID = saleID
	if err := h.facade.UpdateFlashSale(c.Request.Context(), CurrentUserID(c), sale); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Delete handles DELETE /api/seller/flash-sales/:id.
func (h *FlashSaleHandler) Delete(c *gin.Context) {
	saleID, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.facade.DeleteFlashSale(c.Request.Context(), CurrentUserID(c), saleID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
