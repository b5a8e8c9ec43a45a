package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestTenant(t *testing.T, db *gorm.DB) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		Name:          "Acme " + uuid.New().String()[:8],
		Code:          "acme-" + uuid.New().String()[:8],
		Status:        model.TenantStatusActive,
		Plan:          model.TenantPlanStarter,
		MaxUsers:      10,
		MaxProducts:   500,
		MaxWarehouses: 3,
		MaxShops:      3,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func tenantCtx(tenant *model.Tenant) context.Context {
	return scope.WithTenant(context.Background(), tenant)
}

func newTestProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		TenantID:      tenantID,
		SKU:           "SKU-" + uuid.New().String()[:8],
		Name:          "Widget",
		Unit:          "pcs",
		PurchasePrice: decimal.NewFromInt(5),
		SellingPrice:  decimal.NewFromInt(10),
		CurrentStock:  stock,
		Status:        model.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
