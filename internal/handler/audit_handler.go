package handler

import (
	"net/http"
	"strconv"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService  service.AuditService
	retentionDays int
}

func NewAuditHandler(auditService service.AuditService, retentionDays int) *AuditHandler {
	return &AuditHandler{auditService: auditService, retentionDays: retentionDays}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs", middleware.RequireTenant())
	{
		audit.GET("", middleware.RequirePermission(auth.PermAuditView), h.List)
		audit.POST("/cleanup", middleware.RequirePermission(auth.PermAuditManage), h.Cleanup)
	}
	// cross-tenant view for platform operators
	router.GET("/api/audit-logs/all", middleware.RequireSuperAdmin(), h.ListAll)
}

func auditFilter(c *gin.Context) repository.AuditFilter {
	return repository.AuditFilter{
		Action:    c.Query("action"),
		TableName: c.Query("table"),
		From:      queryTime(c, "from"),
		To:        queryTime(c, "to"),
	}
}

func (h *AuditHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	logs, total, err := h.auditService.List(c.Request.Context(), auditFilter(c), p.Page, p.PerPage)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("audit logs", logs, pagination.NewMeta(p, total, len(logs)), tenantInfo(c)))
}

// ListAll is the unscoped super-admin view across tenants. The caller must
// opt in explicitly; a cross-tenant read is never the default.
func (h *AuditHandler) ListAll(c *gin.Context) {
	if c.Query("all_tenants") != "true" {
		c.JSON(http.StatusBadRequest, response.Error("pass all_tenants=true to read across tenants", nil))
		return
	}
	p := pagination.Parse(c)
	logs, total, err := h.auditService.ListAll(c.Request.Context(), auditFilter(c), p.Page, p.PerPage)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("audit logs", logs, pagination.NewMeta(p, total, len(logs)), tenantInfo(c)))
}

// Cleanup removes tenant entries older than the requested day threshold,
// clamped to the supported retention window. The default threshold comes
// from AUDIT_RETENTION_DAYS.
func (h *AuditHandler) Cleanup(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(h.retentionDays)))
	removed, applied, err := h.auditService.Cleanup(c.Request.Context(), days)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("audit logs cleaned", gin.H{
		"removed": removed,
		"days":    applied,
	}, tenantInfo(c)))
}
