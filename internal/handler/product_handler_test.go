package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/database"
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newProductRouter wires the product routes behind the tenant resolver with a
// super-admin principal already authenticated.
func newProductRouter(t *testing.T) (*gin.Engine, *gorm.DB, service.AuditService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	audit := service.NewAuditService(repository.NewAuditRepository(db))
	products := service.NewProductService(
		repository.NewProductRepository(db),
		repository.NewTenantRepository(db),
		audit,
		service.NewDashboardCache(0),
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		principal := &model.User{Role: model.RoleSuperAdmin, IsActive: true}
		c.Request = c.Request.WithContext(scope.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	})
	router.Use(middleware.ResolveTenant(repository.NewTenantRepository(db)))
	NewProductHandler(products).RegisterRoutes(router.Group(""))
	return router, db, audit
}

func TestListProductsWithoutTenantIsBadRequest(t *testing.T) {
	router, _, audit := newProductRouter(t)
	defer audit.Close()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProductsWithTenantHeader(t *testing.T) {
	router, db, audit := newProductRouter(t)
	defer audit.Close()

	tenant := &model.Tenant{
		Name:   "Acme",
		Code:   "acme",
		Status: model.TenantStatusActive,
		Plan:   model.TenantPlanStarter,
	}
	require.NoError(t, db.Create(tenant).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("X-Tenant-ID", tenant.ID.String())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
