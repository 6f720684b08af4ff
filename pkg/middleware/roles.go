package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group on the role custom claim. This mirrors the
// identity provider's server-side rules for UX purposes; the provider remains
// the authorization boundary of record.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := ClaimString(c, "role")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no role assigned"})
			return
		}
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// RequireTenant rejects requests whose token carries no clientId claim.
// Routes behind it can assume a tenant scope is always present.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if TenantID(c) == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no tenant assigned"})
			return
		}
		c.Next()
	}
}
