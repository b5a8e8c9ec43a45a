// Package auth decides whether a principal may perform a named action and
// issues the tokens that identify sessions.
package auth

import (
	"context"
	"encoding/json"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
)

// EffectivePermissions returns the union of the user's role-bundle permissions
// and direct grants. The bundle must be preloaded on the user.
func EffectivePermissions(u *model.User) map[string]struct{} {
	set := make(map[string]struct{})
	if u.RoleBundle != nil && len(u.RoleBundle.Permissions) > 0 {
		var codes []string
		if err := json.Unmarshal(u.RoleBundle.Permissions, &codes); err == nil {
			for _, c := range codes {
				set[c] = struct{}{}
			}
		}
	}
	if len(u.Permissions) > 0 {
		var codes []string
		if err := json.Unmarshal(u.Permissions, &codes); err == nil {
			for _, c := range codes {
				set[c] = struct{}{}
			}
		}
	}
	return set
}

// Can reports whether the principal in ctx may perform the named action.
//
//  1. no principal: deny
//  2. super_admin: allow unconditionally
//  3. active tenant context not matching the principal's tenant: deny
//  4. otherwise: allow iff permission is in the effective set
func Can(ctx context.Context, permission string) bool {
	u, ok := scope.PrincipalFrom(ctx)
	if !ok || !u.IsActive {
		return false
	}
	if u.Role == model.RoleSuperAdmin {
		return true
	}
	if tenant, ok := scope.TenantFrom(ctx); ok {
		if u.TenantID == nil || *u.TenantID != tenant.ID {
			return false
		}
	}
	_, granted := EffectivePermissions(u)[permission]
	return granted
}

// SameTenant reports whether the principal belongs to the given tenant.
// Super admins pass for any tenant.
func SameTenant(u *model.User, tenantID uuid.UUID) bool {
	if u.Role == model.RoleSuperAdmin {
		return true
	}
	return u.TenantID != nil && *u.TenantID == tenantID
}
