package service

import (
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAuditLog(t *testing.T, db *gorm.DB, tenant *model.Tenant, age time.Duration) *model.AuditLog {
	t.Helper()
	log := &model.AuditLog{
		TenantID:  &tenant.ID,
		Action:    model.ActionProductUpdated,
		TableName: "products",
	}
	require.NoError(t, db.Create(log).Error)
	require.NoError(t, db.Model(log).Update("created_at", time.Now().Add(-age)).Error)
	return log
}

func TestAuditCleanupRemovesOldTenantRows(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	other := newTestTenant(t, db)

	svc := NewAuditService(repository.NewAuditRepository(db))
	defer svc.Close()

	old := seedAuditLog(t, db, tenant, 100*24*time.Hour)
	recent := seedAuditLog(t, db, tenant, 24*time.Hour)
	foreign := seedAuditLog(t, db, other, 100*24*time.Hour)

	removed, days, err := svc.Cleanup(tenantCtx(tenant), 90)
	require.NoError(t, err)
	assert.Equal(t, 90, days)
	assert.Equal(t, int64(1), removed)

	var count int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("id = ?", old.ID).Count(&count).Error)
	assert.Zero(t, count)

	// recent rows and other tenants are untouched
	require.NoError(t, db.Model(&model.AuditLog{}).Where("id IN ?", []uuid.UUID{recent.ID, foreign.ID}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAuditCleanupClampsRetention(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)

	svc := NewAuditService(repository.NewAuditRepository(db))
	defer svc.Close()

	// 20 days old, inside the 30-day floor
	seedAuditLog(t, db, tenant, 20*24*time.Hour)

	_, days, err := svc.Cleanup(tenantCtx(tenant), 5)
	require.NoError(t, err)
	assert.Equal(t, MinRetentionDays, days)

	_, days, err = svc.Cleanup(tenantCtx(tenant), 5000)
	require.NoError(t, err)
	assert.Equal(t, MaxRetentionDays, days)

	var count int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
