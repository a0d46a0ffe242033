package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserIDContextKey is the gin context key holding the caller identity.
const UserIDContextKey = "userID"

// userIDHeader carries the identity resolved by the edge gateway.
const userIDHeader = "X-User-ID"

// IdentityRequired resolves the caller identity from the X-User-ID header
// set by the upstream gateway. Requests without a valid identity are
// rejected.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(userIDHeader)
		if raw == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(UserIDContextKey, id)
		c.Next()
	}
}
