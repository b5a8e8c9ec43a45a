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

func newOrderService(db *gorm.DB) (OrderService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	cache := NewDashboardCache(0)
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewInventoryRepository(db),
		repository.NewTransactionManager(db),
		audit,
		cache,
	), audit
}

func TestCreateOrderDeductsStockAndWritesMovements(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 10)

	svc, audit := newOrderService(db)
	defer audit.Close()

	order, err := svc.Create(ctx, OrderRequest{
		Items: []OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(30)))

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 7, got.CurrentStock)

	var movements []model.InventoryMovement
	require.NoError(t, db.Find(&movements, "reference_id = ?", order.ID).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementOut, movements[0].Direction)
	assert.Equal(t, 7, movements[0].StockAfter)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	ok := newTestProduct(t, db, tenant.ID, 10)
	short := newTestProduct(t, db, tenant.ID, 1)

	svc, audit := newOrderService(db)
	defer audit.Close()

	_, err := svc.Create(ctx, OrderRequest{
		Items: []OrderItemRequest{
			{ProductID: ok.ID, Quantity: 5},
			{ProductID: short.ID, Quantity: 2},
		},
	})
	require.Error(t, err)

	// nothing committed: first line's stock untouched, no orders, no movements
	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", ok.ID).Error)
	assert.Equal(t, 10, got.CurrentStock)

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var movements int64
	require.NoError(t, db.Model(&model.InventoryMovement{}).Count(&movements).Error)
	assert.Zero(t, movements)
}

func TestOrderTransitions(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 10)

	svc, audit := newOrderService(db)
	defer audit.Close()

	order, err := svc.Create(ctx, OrderRequest{
		Items: []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// shipping a pending order is invalid, state must not move
	_, err = svc.Ship(ctx, order.ID)
	require.Error(t, err)
	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	_, err = svc.Confirm(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.Ship(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.Deliver(ctx, order.ID)
	require.NoError(t, err)

	// delivered orders cannot be cancelled
	_, err = svc.Cancel(ctx, order.ID)
	require.Error(t, err)
}

func TestCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 10)

	svc, audit := newOrderService(db)
	defer audit.Close()

	order, err := svc.Create(ctx, OrderRequest{
		Items: []OrderItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, order.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, order.ID)
	require.NoError(t, err)

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 10, got.CurrentStock)
}

func TestRecordPayment(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 10)

	svc, audit := newOrderService(db)
	defer audit.Close()

	order, err := svc.Create(ctx, OrderRequest{
		Items: []OrderItemRequest{{ProductID: product.ID, Quantity: 2}}, // total 20
	})
	require.NoError(t, err)

	got, err := svc.RecordPayment(ctx, order.ID, PaymentRequest{Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, got.PaymentStatus)

	got, err = svc.RecordPayment(ctx, order.ID, PaymentRequest{Amount: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)

	_, err = svc.RecordPayment(ctx, order.ID, PaymentRequest{Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
}

func TestCrossTenantOrderLookupIsNotFound(t *testing.T) {
	db := newTestDB(t)
	tenantA := newTestTenant(t, db)
	tenantB := newTestTenant(t, db)
	product := newTestProduct(t, db, tenantA.ID, 10)

	svc, audit := newOrderService(db)
	defer audit.Close()

	order, err := svc.Create(tenantCtx(tenantA), OrderRequest{
		Items: []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// another tenant sees the same id as absent, not as forbidden
	_, err = svc.Get(tenantCtx(tenantB), order.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
