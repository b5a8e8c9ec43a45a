package scope

import (
	"context"

	"backend/internal/apperror"
	"backend/internal/model"
)

type contextKey string

const (
	tenantKey    contextKey = "scope_tenant"
	principalKey contextKey = "scope_principal"
	sessionKey   contextKey = "scope_session"
	clientKey    contextKey = "scope_client"
)

// Client carries the caller's network identity for audit stamping
type Client struct {
	IP        string
	UserAgent string
}

// WithClient attaches the caller's network identity to the request context
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFrom returns the caller's network identity, zero if unset
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey).(Client)
	return c
}

// WithTenant attaches the resolved tenant to the request context
func WithTenant(ctx context.Context, t *model.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// TenantFrom returns the resolved tenant, if any
func TenantFrom(ctx context.Context) (*model.Tenant, bool) {
	t, ok := ctx.Value(tenantKey).(*model.Tenant)
	return t, ok && t != nil
}

// RequireTenant returns the resolved tenant or a 400 error. Handlers that
// legitimately run tenant-less (auth, super-admin tenant management) must not
// call this.
func RequireTenant(ctx context.Context) (*model.Tenant, error) {
	t, ok := TenantFrom(ctx)
	if !ok {
		return nil, apperror.BadRequest("no tenant resolved for this request")
	}
	return t, nil
}

// WithPrincipal attaches the authenticated user to the request context
func WithPrincipal(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

// PrincipalFrom returns the authenticated user, if any
func PrincipalFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey).(*model.User)
	return u, ok && u != nil
}

// WithSession attaches the active session to the request context
func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the active session, if any
func SessionFrom(ctx context.Context) (*model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*model.Session)
	return s, ok && s != nil
}
