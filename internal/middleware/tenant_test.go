package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTenantRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	router := gin.New()
	router.Use(ResolveTenant(repository.NewTenantRepository(db)))
	router.GET("/whoami", func(c *gin.Context) {
		if tenant, ok := scope.TenantFrom(c.Request.Context()); ok {
			c.String(http.StatusOK, tenant.Code)
			return
		}
		c.String(http.StatusOK, "none")
	})
	return router, db
}

func seedTenant(t *testing.T, db *gorm.DB, code, status string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		Name:   code,
		Code:   code,
		Status: status,
		Plan:   model.TenantPlanStarter,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func TestResolveTenantFromHeader(t *testing.T) {
	router, db := newTenantRouter(t)
	tenant := seedTenant(t, db, "acme", model.TenantStatusActive)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Tenant-ID", tenant.ID.String())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())
}

func TestResolveTenantRejectsInactive(t *testing.T) {
	router, db := newTenantRouter(t)
	tenant := seedTenant(t, db, "frozen", model.TenantStatusSuspended)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Tenant-ID", tenant.ID.String())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestResolveTenantRejectsUnknownHeader(t *testing.T) {
	router, _ := newTenantRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Tenant-ID", uuid.New().String())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestResolveTenantFromSubdomain(t *testing.T) {
	router, db := newTenantRouter(t)
	seedTenant(t, db, "acme", model.TenantStatusActive)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Host = "acme.example.com"
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())
}

func TestResolveTenantNoSignal(t *testing.T) {
	router, _ := newTenantRouter(t)

	for _, host := range []string{"example.com", "www.example.com", "localhost:8080"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Host = host
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, host)
		assert.Equal(t, "none", w.Body.String(), host)
	}
}
