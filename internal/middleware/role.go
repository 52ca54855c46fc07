package middleware

import (
	"slices"

	"github.com/m1z23r/drift/pkg/drift"
)

// RequireRole must run after Auth. It rejects callers whose token role is not
// one of roles.
func RequireRole(roles ...string) drift.HandlerFunc {
	return func(c *drift.Context) {
		role := GetUserRole(c)
		if role == "" {
			c.Unauthorized("missing role claim")
			return
		}
		if !slices.Contains(roles, role) {
			c.Forbidden("unauthorized for role " + role)
			return
		}
		c.Next()
	}
}
