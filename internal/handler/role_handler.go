package handler

import (
	"net/http"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/api/roles", middleware.RequireTenant())
	{
		roles.GET("", middleware.RequirePermission(auth.PermRolesView), h.List)
		roles.GET("/catalog", middleware.RequirePermission(auth.PermRolesView), h.Catalog)
		roles.GET("/:id", middleware.RequirePermission(auth.PermRolesView), h.Get)
		roles.POST("", middleware.RequirePermission(auth.PermRolesManage), h.Create)
		roles.PUT("/:id", middleware.RequirePermission(auth.PermRolesManage), h.Update)
		roles.DELETE("/:id", middleware.RequirePermission(auth.PermRolesManage), h.Delete)
	}
}

func (h *RoleHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	roles, total, err := h.roleService.List(c.Request.Context(), p.Page, p.PerPage)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("roles", roles, pagination.NewMeta(p, total, len(roles)), tenantInfo(c)))
}

// Catalog lists the permission codes a role may grant
func (h *RoleHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success("permission catalog", auth.Catalog(), tenantInfo(c)))
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("role", role, tenantInfo(c)))
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req service.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.roleService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("role created", role, tenantInfo(c)))
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.roleService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("role updated", role, tenantInfo(c)))
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("role deleted", nil, tenantInfo(c)))
}
