package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
	"github.com/quadramart/settlement/internal/server/http/middleware"
)

// CurrentUserID extracts the caller identity from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	var (
		invalidTransition *domainErrors.InvalidTransitionError
		cancelNotAllowed  *domainErrors.CancelNotAllowedError
		gate              *domainErrors.GateError
		quotaExceeded     *domainErrors.QuotaExceededError
	)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrNotOwner):
		c.AbortWithStatus(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrSignatureMismatch):
		c.AbortWithStatus(http.StatusUnauthorized)
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrInsufficientStock),
		errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrMissingCancelReason):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.As(err, &invalidTransition),
		errors.As(err, &cancelNotAllowed),
		errors.As(err, &gate),
		errors.As(err, &quotaExceeded):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
