package handler

import (
	"encoding/json"
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

func TestCleanupUsesConfiguredRetentionDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tenant := &model.Tenant{
		Name:   "Acme",
		Code:   "acme",
		Status: model.TenantStatusActive,
		Plan:   model.TenantPlanStarter,
	}
	require.NoError(t, db.Create(tenant).Error)

	audit := service.NewAuditService(repository.NewAuditRepository(db))
	defer audit.Close()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		principal := &model.User{Role: model.RoleSuperAdmin, IsActive: true}
		c.Request = c.Request.WithContext(scope.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	})
	router.Use(middleware.ResolveTenant(repository.NewTenantRepository(db)))
	NewAuditHandler(audit, 45).RegisterRoutes(router.Group(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/audit-logs/cleanup", nil)
	req.Header.Set("X-Tenant-ID", tenant.ID.String())
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Days int `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 45, body.Data.Days)
}
