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

type SiteHandler struct {
	siteService service.SiteService
}

func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func (h *SiteHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouses := router.Group("/api/warehouses", middleware.RequireTenant())
	{
		warehouses.GET("", middleware.RequirePermission(auth.PermWarehousesView), h.ListWarehouses)
		warehouses.GET("/:id", middleware.RequirePermission(auth.PermWarehousesView), h.GetWarehouse)
		warehouses.POST("", middleware.RequirePermission(auth.PermWarehousesManage), h.CreateWarehouse)
		warehouses.PUT("/:id", middleware.RequirePermission(auth.PermWarehousesManage), h.UpdateWarehouse)
		warehouses.DELETE("/:id", middleware.RequirePermission(auth.PermWarehousesManage), h.DeleteWarehouse)
	}

	shops := router.Group("/api/shops", middleware.RequireTenant())
	{
		shops.GET("", middleware.RequirePermission(auth.PermShopsView), h.ListShops)
		shops.GET("/:id", middleware.RequirePermission(auth.PermShopsView), h.GetShop)
		shops.POST("", middleware.RequirePermission(auth.PermShopsManage), h.CreateShop)
		shops.PUT("/:id", middleware.RequirePermission(auth.PermShopsManage), h.UpdateShop)
		shops.DELETE("/:id", middleware.RequirePermission(auth.PermShopsManage), h.DeleteShop)
	}
}

// --- warehouses ---

func (h *SiteHandler) ListWarehouses(c *gin.Context) {
	p := pagination.Parse(c)
	warehouses, total, err := h.siteService.ListWarehouses(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("warehouses", warehouses, pagination.NewMeta(p, total, len(warehouses)), tenantInfo(c)))
}

func (h *SiteHandler) GetWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.siteService.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("warehouse", warehouse, tenantInfo(c)))
}

func (h *SiteHandler) CreateWarehouse(c *gin.Context) {
	var req service.SiteRequest
	if !bindJSON(c, &req) {
		return
	}
	warehouse, err := h.siteService.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("warehouse created", warehouse, tenantInfo(c)))
}

func (h *SiteHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.SiteRequest
	if !bindJSON(c, &req) {
		return
	}
	warehouse, err := h.siteService.UpdateWarehouse(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("warehouse updated", warehouse, tenantInfo(c)))
}

func (h *SiteHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.siteService.DeleteWarehouse(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("warehouse deleted", nil, tenantInfo(c)))
}

// --- shops ---

func (h *SiteHandler) ListShops(c *gin.Context) {
	p := pagination.Parse(c)
	shops, total, err := h.siteService.ListShops(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("shops", shops, pagination.NewMeta(p, total, len(shops)), tenantInfo(c)))
}

func (h *SiteHandler) GetShop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	shop, err := h.siteService.GetShop(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("shop", shop, tenantInfo(c)))
}

func (h *SiteHandler) CreateShop(c *gin.Context) {
	var req service.SiteRequest
	if !bindJSON(c, &req) {
		return
	}
	shop, err := h.siteService.CreateShop(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("shop created", shop, tenantInfo(c)))
}

func (h *SiteHandler) UpdateShop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.SiteRequest
	if !bindJSON(c, &req) {
		return
	}
	shop, err := h.siteService.UpdateShop(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("shop updated", shop, tenantInfo(c)))
}

func (h *SiteHandler) DeleteShop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.siteService.DeleteShop(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("shop deleted", nil, tenantInfo(c)))
}
