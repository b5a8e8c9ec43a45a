package middleware

import (
	"context"
	"net/http"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResolveTenant determines the active tenant for the request. Precedence:
//
//  1. X-Tenant-ID header (trusted internal/service calls)
//  2. the authenticated principal's tenant
//  3. the first subdomain label (excluding www) matched against tenant codes
//
// A signal that resolves to a missing or non-active tenant rejects the request
// with 403 before any entity query. No signal leaves the context tenant-less;
// handlers that need one fail with 400 via scope.RequireTenant.
func ResolveTenant(tenants repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tenant, err := resolve(ctx, c, tenants)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(err.Error(), nil))
			return
		}
		if tenant != nil {
			c.Request = c.Request.WithContext(scope.WithTenant(ctx, tenant))
		}
		c.Next()
	}
}

type resolveError string

func (e resolveError) Error() string { return string(e) }

const (
	errTenantUnknown  resolveError = "tenant not found"
	errTenantInactive resolveError = "tenant is not active"
)

func resolve(ctx context.Context, c *gin.Context, tenants repository.TenantRepository) (*model.Tenant, error) {
	// 1. explicit header
	if raw := c.GetHeader("X-Tenant-ID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errTenantUnknown
		}
		return lookup(ctx, tenants, id)
	}

	// 2. authenticated principal
	if principal, ok := scope.PrincipalFrom(ctx); ok && principal.TenantID != nil {
		return lookup(ctx, tenants, *principal.TenantID)
	}

	// 3. subdomain
	if code := subdomain(c.Request.Host); code != "" {
		tenant, err := tenants.GetByCode(ctx, code)
		if err != nil {
			// an unmatched subdomain is not a tenant signal; continue tenant-less
			return nil, nil
		}
		if !tenant.IsActive() {
			return nil, errTenantInactive
		}
		return tenant, nil
	}

	return nil, nil
}

func lookup(ctx context.Context, tenants repository.TenantRepository, id uuid.UUID) (*model.Tenant, error) {
	tenant, err := tenants.GetByID(ctx, id)
	if err != nil {
		return nil, errTenantUnknown
	}
	if !tenant.IsActive() {
		return nil, errTenantInactive
	}
	return tenant, nil
}

// subdomain returns the first host label, or "" when the host has no
// subdomain or it is www.
func subdomain(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}
	if parts[0] == "www" {
		return ""
	}
	return parts[0]
}
