package service

import (
	"testing"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRoleService(db *gorm.DB) (RoleService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	return NewRoleService(repository.NewRoleRepository(db), audit), audit
}

func TestCreateRoleValidatesPermissions(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newRoleService(db)
	defer audit.Close()

	created, err := svc.Create(ctx, RoleRequest{
		Name:        "warehouse-lead",
		Permissions: []string{auth.PermInventoryView, auth.PermInventoryAdjust},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{auth.PermInventoryView, auth.PermInventoryAdjust}, created.Permissions)

	_, err = svc.Create(ctx, RoleRequest{
		Name:        "typo",
		Permissions: []string{"inventory.levitate"},
	})
	require.Error(t, err)

	// the built-in super admin name is reserved
	_, err = svc.Create(ctx, RoleRequest{
		Name:        model.RoleSuperAdmin,
		Permissions: []string{auth.PermUsersView},
	})
	require.Error(t, err)
}

func TestSystemRolesAreImmutable(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	role := &model.Role{
		TenantID: &tenant.ID,
		Name:     "built-in",
		IsSystem: true,
	}
	require.NoError(t, db.Create(role).Error)

	svc, audit := newRoleService(db)
	defer audit.Close()

	_, err := svc.Update(ctx, role.ID, RoleRequest{Name: "renamed", Permissions: []string{auth.PermUsersView}})
	require.Error(t, err)
	require.Error(t, svc.Delete(ctx, role.ID))
}

func TestDeleteRoleBlockedWhileAssigned(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newRoleService(db)
	defer audit.Close()

	created, err := svc.Create(ctx, RoleRequest{
		Name:        "clerk",
		Permissions: []string{auth.PermOrdersView},
	})
	require.NoError(t, err)

	user := seedUser(t, db, tenant.ID, "pw never used")
	require.NoError(t, db.Model(user).Update("role_id", created.ID).Error)

	require.Error(t, svc.Delete(ctx, created.ID))

	require.NoError(t, db.Model(user).Update("role_id", nil).Error)
	require.NoError(t, svc.Delete(ctx, created.ID))
}
