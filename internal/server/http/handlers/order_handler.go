package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/server/http/dto"
)

// OrderHandler serves order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.NewOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Items handles GET /api/orders/:id/items.
func (h *OrderHandler) Items(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	items, err := h.facade.OrderItems(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, dto.OrderItemResponse{
			VariantID:   it.VariantID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
			Subtotal:    it.PriceAtTime.MulInt(it.Quantity),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentUserID(c), orderID, model.OrderStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// BatchUpdateStatus handles PATCH /api/orders/status.
func (h *OrderHandler) BatchUpdateStatus(c *gin.Context) {
	var req dto.BatchUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.facade.BatchUpdateOrderStatus(c.Request.Context(), CurrentUserID(c), req.OrderIDs, model.OrderStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Confirm handles POST /api/orders/:id/confirm.
func (h *OrderHandler) Confirm(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.facade.ConfirmReceipt(c.Request.Context(), CurrentUserID(c), orderID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.facade.Cancel(c.Request.Context(), CurrentUserID(c), orderID, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Timeline handles GET /api/orders/:id/timeline.
func (h *OrderHandler) Timeline(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	entries, err := h.facade.Timeline(c.Request.Context(), CurrentUserID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.TimelineEntryResponse{
			Status:     string(e.Status),
			Note:       e.Note,
			OccurredAt: e.OccurredAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// AddNote handles POST /api/orders/:id/note.
func (h *OrderHandler) AddNote(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.facade.AddNote(c.Request.Context(), CurrentUserID(c), orderID, req.Note); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// parseID reads the :id path parameter, aborting with 400 on bad input.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return 0, err
	}
	return id, nil
}
