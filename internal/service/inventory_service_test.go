package service

import (
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInventoryService(db *gorm.DB) (InventoryService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	return NewInventoryService(
		repository.NewInventoryRepository(db),
		repository.NewProductRepository(db),
		repository.NewTransactionManager(db),
		audit,
		NewDashboardCache(0),
	), audit
}

func TestAdjustStockRecordsMovement(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 12)

	svc, audit := newInventoryService(db)
	defer audit.Close()

	movement, err := svc.Adjust(ctx, AdjustStockRequest{
		ProductID: product.ID,
		NewStock:  7,
		Reason:    "annual count",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MovementAdjust, movement.Direction)
	assert.Equal(t, 5, movement.Quantity)
	assert.Equal(t, 7, movement.StockAfter)
	assert.Equal(t, "annual count", movement.Reason)

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 7, got.CurrentStock)
}

func TestAdjustStockRejectsNoOpAndNegative(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 12)

	svc, audit := newInventoryService(db)
	defer audit.Close()

	_, err := svc.Adjust(ctx, AdjustStockRequest{ProductID: product.ID, NewStock: 12, Reason: "count"})
	require.Error(t, err)

	_, err = svc.Adjust(ctx, AdjustStockRequest{ProductID: product.ID, NewStock: -1, Reason: "count"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.InventoryMovement{}).Count(&count).Error)
	assert.Zero(t, count)
}
