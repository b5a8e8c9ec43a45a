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

// CatalogHandler serves the product reference data: categories, brands and
// suppliers share one permission pair.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequirePermission(auth.PermCatalogView)
	manage := middleware.RequirePermission(auth.PermCatalogManage)

	categories := router.Group("/api/categories", middleware.RequireTenant())
	{
		categories.GET("", view, h.ListCategories)
		categories.GET("/:id", view, h.GetCategory)
		categories.POST("", manage, h.CreateCategory)
		categories.PUT("/:id", manage, h.UpdateCategory)
		categories.DELETE("/:id", manage, h.DeleteCategory)
	}

	brands := router.Group("/api/brands", middleware.RequireTenant())
	{
		brands.GET("", view, h.ListBrands)
		brands.GET("/:id", view, h.GetBrand)
		brands.POST("", manage, h.CreateBrand)
		brands.PUT("/:id", manage, h.UpdateBrand)
		brands.DELETE("/:id", manage, h.DeleteBrand)
	}

	suppliers := router.Group("/api/suppliers", middleware.RequireTenant())
	{
		suppliers.GET("", view, h.ListSuppliers)
		suppliers.GET("/:id", view, h.GetSupplier)
		suppliers.POST("", manage, h.CreateSupplier)
		suppliers.PUT("/:id", manage, h.UpdateSupplier)
		suppliers.DELETE("/:id", manage, h.DeleteSupplier)
	}
}

// --- categories ---

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	p := pagination.Parse(c)
	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("categories", categories, pagination.NewMeta(p, total, len(categories)), tenantInfo(c)))
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("category", category, tenantInfo(c)))
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("category created", category, tenantInfo(c)))
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("category updated", category, tenantInfo(c)))
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("category deleted", nil, tenantInfo(c)))
}

// --- brands ---

func (h *CatalogHandler) ListBrands(c *gin.Context) {
	p := pagination.Parse(c)
	brands, total, err := h.catalogService.ListBrands(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("brands", brands, pagination.NewMeta(p, total, len(brands)), tenantInfo(c)))
}

func (h *CatalogHandler) GetBrand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	brand, err := h.catalogService.GetBrand(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("brand", brand, tenantInfo(c)))
}

func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req service.BrandRequest
	if !bindJSON(c, &req) {
		return
	}
	brand, err := h.catalogService.CreateBrand(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("brand created", brand, tenantInfo(c)))
}

func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.BrandRequest
	if !bindJSON(c, &req) {
		return
	}
	brand, err := h.catalogService.UpdateBrand(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("brand updated", brand, tenantInfo(c)))
}

func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteBrand(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("brand deleted", nil, tenantInfo(c)))
}

// --- suppliers ---

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	p := pagination.Parse(c)
	suppliers, total, err := h.catalogService.ListSuppliers(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("suppliers", suppliers, pagination.NewMeta(p, total, len(suppliers)), tenantInfo(c)))
}

func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.catalogService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("supplier", supplier, tenantInfo(c)))
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.catalogService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("supplier created", supplier, tenantInfo(c)))
}

func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.catalogService.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("supplier updated", supplier, tenantInfo(c)))
}

func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("supplier deleted", nil, tenantInfo(c)))
}
