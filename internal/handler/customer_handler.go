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

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/api/customers", middleware.RequireTenant())
	{
		customers.GET("", middleware.RequirePermission(auth.PermCustomersView), h.List)
		customers.GET("/:id", middleware.RequirePermission(auth.PermCustomersView), h.Get)
		customers.POST("", middleware.RequirePermission(auth.PermCustomersManage), h.Create)
		customers.PUT("/:id", middleware.RequirePermission(auth.PermCustomersManage), h.Update)
		customers.DELETE("/:id", middleware.RequirePermission(auth.PermCustomersManage), h.Delete)
	}
}

func (h *CustomerHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	customers, total, err := h.customerService.List(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("customers", customers, pagination.NewMeta(p, total, len(customers)), tenantInfo(c)))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("customer", customer, tenantInfo(c)))
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req service.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("customer created", customer, tenantInfo(c)))
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("customer updated", customer, tenantInfo(c)))
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("customer deleted", nil, tenantInfo(c)))
}
