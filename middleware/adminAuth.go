package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminClaim is the custom claim that marks an administrator.
const AdminClaim = "admin"

// RequireAdmin lets through callers whose token carries admin=true. It must
// run after FirebaseAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get(ContextClaims)
		if !ok {
			unauthorized(c)
			return
		}
		claims, _ := raw.(map[string]interface{})
		if isAdmin, _ := claims[AdminClaim].(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized admin access"})
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
