package handler

import (
	"net/http"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products", middleware.RequireTenant())
	{
		products.GET("", middleware.RequirePermission(auth.PermProductsView), h.List)
		products.GET("/:id", middleware.RequirePermission(auth.PermProductsView), h.Get)
		products.POST("", middleware.RequirePermission(auth.PermProductsManage), h.Create)
		products.PUT("/:id", middleware.RequirePermission(auth.PermProductsManage), h.Update)
		products.DELETE("/:id", middleware.RequirePermission(auth.PermProductsManage), h.Delete)
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.ProductFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		CategoryID: queryID(c, "category_id"),
		BrandID:    queryID(c, "brand_id"),
		SupplierID: queryID(c, "supplier_id"),
		From:       queryTime(c, "from"),
		To:         queryTime(c, "to"),
	}

	products, total, err := h.productService.List(c.Request.Context(), filter, p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("products", products, pagination.NewMeta(p, total, len(products)), tenantInfo(c)))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("product", product, tenantInfo(c)))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("product created", product, tenantInfo(c)))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("product updated", product, tenantInfo(c)))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("product deleted", nil, tenantInfo(c)))
}
