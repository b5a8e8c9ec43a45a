package service

import (
	"testing"
	"time"

	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCacheTTLAndInvalidate(t *testing.T) {
	cache := NewDashboardCache(time.Hour)
	tenantID := uuid.New()

	_, ok := cache.Get(tenantID)
	assert.False(t, ok)

	summary := &DashboardSummary{Products: 3}
	cache.Set(tenantID, summary)

	got, ok := cache.Get(tenantID)
	require.True(t, ok)
	assert.Equal(t, int64(3), got.Products)

	// per-tenant isolation
	_, ok = cache.Get(uuid.New())
	assert.False(t, ok)

	cache.Invalidate(tenantID)
	_, ok = cache.Get(tenantID)
	assert.False(t, ok)
}

func TestDashboardCacheExpires(t *testing.T) {
	cache := NewDashboardCache(-time.Second)
	tenantID := uuid.New()
	cache.Set(tenantID, &DashboardSummary{})
	_, ok := cache.Get(tenantID)
	assert.False(t, ok)
}

func TestDashboardSummaryServesCachedSnapshot(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	newTestProduct(t, db, tenant.ID, 5)

	cache := NewDashboardCache(time.Hour)
	svc := NewDashboardService(repository.NewDashboardRepository(db), cache)

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Products)

	// a write bypassing the services is invisible until invalidation
	newTestProduct(t, db, tenant.ID, 2)

	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Products)

	cache.Invalidate(tenant.ID)
	third, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.Products)
}
