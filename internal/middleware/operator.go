package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const operatorRoleHeader = "X-Operator-Role"

// Roles allowed to mutate pricing state. Authentication itself happens
// upstream (gateway/session layer); the engine only checks the capability
// the caller asserts.
var pricingRoles = map[string]bool{
	"admin":           true,
	"pricing-manager": true,
}

// RequirePricingRole gates override and rule mutations behind the operator
// capability asserted by the caller.
func RequirePricingRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(operatorRoleHeader)
		if !pricingRoles[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "pricing changes require admin or pricing-manager role",
			})
			return
		}
		c.Next()
	}
}
