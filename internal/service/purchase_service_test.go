package service

import (
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPurchaseService(db *gorm.DB) (PurchaseService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	return NewPurchaseService(
		repository.NewPurchaseRepository(db),
		repository.NewProductRepository(db),
		repository.NewInventoryRepository(db),
		repository.NewTransactionManager(db),
		audit,
	), audit
}

func TestPurchaseDraftOnlyEditAndDelete(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 0)

	svc, audit := newPurchaseService(db)
	defer audit.Close()

	purchase, err := svc.Create(ctx, PurchaseRequest{
		Items: []PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 5, UnitCost: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusDraft, purchase.Status)
	assert.True(t, purchase.Total.Equal(decimal.NewFromInt(15)))

	updated, err := svc.Update(ctx, purchase.ID, PurchaseRequest{
		Items: []PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 10, UnitCost: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(20)))

	_, err = svc.MarkOrdered(ctx, purchase.ID)
	require.NoError(t, err)

	// ordered purchases are frozen
	_, err = svc.Update(ctx, purchase.ID, PurchaseRequest{
		Items: []PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)
	err = svc.Delete(ctx, purchase.ID)
	require.Error(t, err)
}

func TestReceivePurchaseIncrementsStock(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 4)

	svc, audit := newPurchaseService(db)
	defer audit.Close()

	purchase, err := svc.Create(ctx, PurchaseRequest{
		Items: []PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 6, UnitCost: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	// receiving a draft is invalid
	_, err = svc.Receive(ctx, purchase.ID)
	require.Error(t, err)

	_, err = svc.MarkOrdered(ctx, purchase.ID)
	require.NoError(t, err)

	received, err := svc.Receive(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedAt)

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 10, got.CurrentStock)

	var movements []model.InventoryMovement
	require.NoError(t, db.Find(&movements, "reference_id = ?", purchase.ID).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementIn, movements[0].Direction)
	assert.Equal(t, 6, movements[0].Quantity)
	assert.Equal(t, 10, movements[0].StockAfter)

	// received purchases cannot be cancelled
	_, err = svc.Cancel(ctx, purchase.ID)
	require.Error(t, err)
}

func TestCancelPurchaseFromOrdered(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 0)

	svc, audit := newPurchaseService(db)
	defer audit.Close()

	purchase, err := svc.Create(ctx, PurchaseRequest{
		Items: []PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitCost: decimal.NewFromInt(7)},
		},
	})
	require.NoError(t, err)

	_, err = svc.MarkOrdered(ctx, purchase.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusCancelled, cancelled.Status)

	// cancelling never touches stock
	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 0, got.CurrentStock)
}
