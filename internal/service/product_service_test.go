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

func newProductService(db *gorm.DB) (ProductService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	return NewProductService(
		repository.NewProductRepository(db),
		repository.NewTenantRepository(db),
		audit,
		NewDashboardCache(0),
	), audit
}

func TestCreateProductDefaultsAndDuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newProductService(db)
	defer audit.Close()

	created, err := svc.Create(ctx, ProductRequest{
		SKU:          "SKU-1000",
		Name:         "Widget",
		SellingPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusActive, created.Status)
	assert.Equal(t, "pcs", created.Unit)

	// same SKU inside the tenant conflicts
	_, err = svc.Create(ctx, ProductRequest{
		SKU:          "SKU-1000",
		Name:         "Widget copy",
		SellingPrice: decimal.NewFromInt(10),
	})
	require.Error(t, err)

	// same SKU in another tenant is fine
	other := newTestTenant(t, db)
	_, err = svc.Create(tenantCtx(other), ProductRequest{
		SKU:          "SKU-1000",
		Name:         "Widget",
		SellingPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
}

func TestCreateProductEnforcesPlanLimit(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	tenant.MaxProducts = 1
	require.NoError(t, db.Save(tenant).Error)
	ctx := tenantCtx(tenant)

	svc, audit := newProductService(db)
	defer audit.Close()

	_, err := svc.Create(ctx, ProductRequest{
		SKU:          "SKU-A",
		Name:         "First",
		SellingPrice: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ProductRequest{
		SKU:          "SKU-B",
		Name:         "Second",
		SellingPrice: decimal.NewFromInt(1),
	})
	require.Error(t, err)
}

func TestProductPriceValidation(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newProductService(db)
	defer audit.Close()

	_, err := svc.Create(ctx, ProductRequest{
		SKU:          "SKU-NEG",
		Name:         "Bad",
		SellingPrice: decimal.NewFromInt(-1),
	})
	require.Error(t, err)

	// discount must undercut the selling price
	_, err = svc.Create(ctx, ProductRequest{
		SKU:           "SKU-DISC",
		Name:          "Bad discount",
		SellingPrice:  decimal.NewFromInt(10),
		DiscountPrice: decimal.NewFromInt(10),
	})
	require.Error(t, err)
}

func TestDeleteProductBlockedByOpenOrders(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)
	product := newTestProduct(t, db, tenant.ID, 10)

	svc, audit := newProductService(db)
	defer audit.Close()

	order := &model.Order{
		TenantID: tenant.ID,
		OrderNo:  "ORD-TEST-1",
		Status:   model.OrderStatusPending,
		Items: []model.OrderItem{
			{
				TenantID:  tenant.ID,
				ProductID: product.ID,
				Quantity:  1,
				UnitPrice: decimal.NewFromInt(10),
				Subtotal:  decimal.NewFromInt(10),
			},
		},
	}
	require.NoError(t, db.Create(order).Error)

	err := svc.Delete(ctx, product.ID)
	require.Error(t, err)

	require.NoError(t, db.Model(order).Update("status", model.OrderStatusDelivered).Error)
	require.NoError(t, svc.Delete(ctx, product.ID))
}
