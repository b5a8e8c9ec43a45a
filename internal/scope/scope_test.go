package scope

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.CustomerProfile{}))
	return db
}

func TestScopedFiltersByTenant(t *testing.T) {
	db := openDB(t)
	mine := &model.Tenant{}
	mine.ID = uuid.New()
	theirs := uuid.New()

	require.NoError(t, db.Create(&model.CustomerProfile{TenantID: mine.ID, Name: "Ours"}).Error)
	require.NoError(t, db.Create(&model.CustomerProfile{TenantID: theirs, Name: "Theirs"}).Error)

	ctx := WithTenant(context.Background(), mine)

	var customers []model.CustomerProfile
	require.NoError(t, Scoped(ctx, db).Find(&customers).Error)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ours", customers[0].Name)
}

func TestScopedPanicsWithoutTenant(t *testing.T) {
	db := openDB(t)
	assert.Panics(t, func() {
		Scoped(context.Background(), db)
	})
	assert.Panics(t, func() {
		ScopedTable(context.Background(), db, "customer_profiles")
	})
}

func TestRequireTenant(t *testing.T) {
	_, err := RequireTenant(context.Background())
	require.Error(t, err)

	tenant := &model.Tenant{}
	tenant.ID = uuid.New()
	got, err := RequireTenant(WithTenant(context.Background(), tenant))
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
}
