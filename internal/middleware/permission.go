package middleware

import (
	"net/http"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/scope"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequirePermission gates a route behind a permission code. The code is
// checked against the canonical catalog at wire-up, so a typo panics at
// startup instead of silently always-denying. Denials return 403 with no
// detail about which permissions exist.
func RequirePermission(permission string) gin.HandlerFunc {
	auth.MustKnow(permission)
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := scope.PrincipalFrom(ctx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authentication required", nil))
			return
		}
		if !auth.Can(ctx, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("access denied", nil))
			return
		}
		c.Next()
	}
}

// RequireTenant rejects requests that reach a tenant-scoped route group
// without a resolved tenant. A super admin calling without X-Tenant-ID passes
// the permission gate but has no tenant to operate in; that is a caller error,
// not a server one. scope.Scoped's panic stays as the last-resort guard.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := scope.TenantFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Error("no tenant resolved for this request", nil))
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin gates super-admin-only routes (tenant management,
// system-level audit views).
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := scope.PrincipalFrom(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authentication required", nil))
			return
		}
		if principal.Role != model.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("access denied", nil))
			return
		}
		c.Next()
	}
}
