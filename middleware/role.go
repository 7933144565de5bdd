package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole guards a route group for a single role. It must run after
// JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("userRole")
		if userRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "This action is restricted to " + role + " accounts",
			})
			return
		}
		c.Next()
	}
}
