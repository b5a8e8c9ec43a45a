package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// TenantHandler serves the super-admin tenant management surface. Every route
// is gated by RequireSuperAdmin and runs tenant-less.
type TenantHandler struct {
	tenantService service.TenantService
}

func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func (h *TenantHandler) RegisterRoutes(router *gin.RouterGroup) {
	tenants := router.Group("/api/tenants", middleware.RequireSuperAdmin())
	{
		tenants.POST("", h.Create)
		tenants.GET("", h.List)
		tenants.GET("/:id", h.Get)
		tenants.PUT("/:id", h.Update)
		tenants.POST("/:id/suspend", h.Suspend)
		tenants.POST("/:id/activate", h.Activate)
		tenants.DELETE("/:id", h.Delete)
	}
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req service.CreateTenantRequest
	if !bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("tenant created", tenant, nil))
}

func (h *TenantHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	tenants, total, err := h.tenantService.List(c.Request.Context(), c.Query("status"), p.Page, p.PerPage)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("tenants", tenants, pagination.NewMeta(p, total, len(tenants)), nil))
}

func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenant, err := h.tenantService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("tenant", tenant, nil))
}

func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("tenant updated", tenant, nil))
}

func (h *TenantHandler) Suspend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tenantService.Suspend(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("tenant suspended", nil, nil))
}

func (h *TenantHandler) Activate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tenantService.Activate(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("tenant activated", nil, nil))
}

func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("tenant deleted", nil, nil))
}
