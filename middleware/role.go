package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
)

const RoleHeader = "X-Role"

// RoleFromHeader returns the caller's role, or "" when the header is absent
// or carries an unknown value.
func RoleFromHeader(c *gin.Context) config.Role {
	role := config.Role(c.GetHeader(RoleHeader))
	if slices.Contains(config.AllowedRoles, role) {
		return role
	}
	return ""
}

// RequireRole aborts with 403 unless the caller has exactly role.
func RequireRole(role config.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := RoleFromHeader(c)
		if current != role {
			c.Error(common.Forbidden(string(role), string(current)))
			c.Abort()
			return
		}
		c.Next()
	}
}
