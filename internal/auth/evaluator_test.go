package auth

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func activeUser(tenantID uuid.UUID, role string, direct ...string) *model.User {
	u := &model.User{
		TenantID: &tenantID,
		Role:     role,
		IsActive: true,
	}
	if len(direct) > 0 {
		u.Permissions = datatypes.JSON(mustJSON(direct))
	}
	return u
}

func mustJSON(codes []string) []byte {
	out := []byte(`[`)
	for i, c := range codes {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '"')
		out = append(out, c...)
		out = append(out, '"')
	}
	return append(out, ']')
}

func TestCanDeniesWithoutPrincipal(t *testing.T) {
	assert.False(t, Can(context.Background(), PermProductsView))
}

func TestCanDeniesInactivePrincipal(t *testing.T) {
	tenantID := uuid.New()
	u := activeUser(tenantID, model.RoleAdmin, PermProductsView)
	u.IsActive = false
	ctx := scope.WithPrincipal(context.Background(), u)
	assert.False(t, Can(ctx, PermProductsView))
}

func TestSuperAdminBypassesPermissionChecks(t *testing.T) {
	u := &model.User{Role: model.RoleSuperAdmin, IsActive: true}
	ctx := scope.WithPrincipal(context.Background(), u)
	assert.True(t, Can(ctx, PermUsersManage))
	assert.True(t, Can(ctx, PermProductsManage))
}

func TestCanDeniesCrossTenantPrincipal(t *testing.T) {
	home := uuid.New()
	u := activeUser(home, model.RoleAdmin, PermProductsView)

	visiting := &model.Tenant{ID: uuid.New()}
	ctx := scope.WithPrincipal(context.Background(), u)
	ctx = scope.WithTenant(ctx, visiting)

	assert.False(t, Can(ctx, PermProductsView))
}

func TestCanUnionsBundleAndDirectGrants(t *testing.T) {
	tenant := &model.Tenant{ID: uuid.New()}
	u := activeUser(tenant.ID, model.RoleEmployee, PermOrdersView)
	u.RoleBundle = &model.Role{
		Permissions: datatypes.JSON(mustJSON([]string{PermProductsView})),
	}
	ctx := scope.WithTenant(scope.WithPrincipal(context.Background(), u), tenant)

	assert.True(t, Can(ctx, PermProductsView), "bundle grant")
	assert.True(t, Can(ctx, PermOrdersView), "direct grant")
	assert.False(t, Can(ctx, PermProductsManage), "never granted")
}

func TestSameTenant(t *testing.T) {
	tenantID := uuid.New()
	assert.True(t, SameTenant(activeUser(tenantID, model.RoleAdmin), tenantID))
	assert.False(t, SameTenant(activeUser(uuid.New(), model.RoleAdmin), tenantID))
	assert.True(t, SameTenant(&model.User{Role: model.RoleSuperAdmin}, tenantID))
}

func TestKnownPermissions(t *testing.T) {
	assert.True(t, Known(PermDashboardView))
	assert.False(t, Known("products.fly"))

	for _, code := range Catalog() {
		assert.True(t, Known(code))
	}

	assert.Panics(t, func() { MustKnow("orders.teleport") })
	assert.NotPanics(t, func() { MustKnow(PermOrdersView, PermOrdersManage) })
}
