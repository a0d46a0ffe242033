package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/server/http/dto"
)

// signatureHeader carries the provider's HMAC over the raw callback body.
const signatureHeader = "X-Gateway-Signature"

// SignatureVerifier checks callback authenticity.
type SignatureVerifier interface {
	Verify(body []byte, signature string) error
}

// PaymentHandler serves the payment provider callback.
type PaymentHandler struct {
	facade   PaymentFacade
	verifier SignatureVerifier
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, verifier SignatureVerifier) *PaymentHandler {
	return &PaymentHandler{facade: facade, verifier: verifier}
}

// Callback handles POST /api/payments/callback. The signature covers the
// raw body, so it is verified before any parsing.
func (h *PaymentHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.verifier.Verify(body, c.GetHeader(signatureHeader)); err != nil {
		writeError(c, err)
		return
	}

	var callback dto.GatewayCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if callback.Reference == "" {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	switch callback.Status {
	case dto.GatewayStatusSuccess:
		err = h.facade.PaymentSucceeded(c.Request.Context(), callback.Reference, callback.Detail)
	case dto.GatewayStatusFailed:
		err = h.facade.FailPayment(c.Request.Context(), callback.Reference, callback.Detail)
	default:
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
