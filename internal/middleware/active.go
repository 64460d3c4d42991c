package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"etugal/internal/services"
)

// ActiveGuard rejects mutating requests from suspended or terminated
// accounts before they reach a handler. Read paths pass through; the trust
// check still runs its lazy suspension expiry on each attempt.
func ActiveGuard(trust services.TrustService) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		profileID, ok := c.Get("profile_id")
		if !ok {
			c.Next()
			return
		}
		id, _ := profileID.(int64)

		if err := trust.RequireActive(c.Request.Context(), id); err != nil {
			if errors.Is(err, services.ErrAccountTerminated) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error_message": "Your account is terminated."})
				return
			}
			if errors.Is(err, services.ErrAccountSuspended) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error_message": "Your account is suspended."})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to check account status"})
			return
		}
		c.Next()
	}
}
