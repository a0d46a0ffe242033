package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/server/http/dto"
)

// WalletHandler serves wallet endpoints.
type WalletHandler struct {
	facade WalletFacade
}

// NewWalletHandler constructs WalletHandler.
func NewWalletHandler(facade WalletFacade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// Summary handles GET /api/wallet.
func (h *WalletHandler) Summary(c *gin.Context) {
	wallet, err := h.facade.Wallet(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WalletResponse{Balance: wallet.Balance})
}

// History handles GET /api/wallet/transactions.
func (h *WalletHandler) History(c *gin.Context) {
	txns, err := h.facade.WalletHistory(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(txns) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	resp := make([]dto.WalletTransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, dto.NewWalletTransactionResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// TopUp handles POST /api/wallet/top-up.
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.facade.TopUpWallet(c.Request.Context(), CurrentUserID(c), req.Amount, "wallet top-up"); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
