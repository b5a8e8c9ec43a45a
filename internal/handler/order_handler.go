package handler

import (
	"context"
	"net/http"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders", middleware.RequireTenant())
	{
		orders.GET("", middleware.RequirePermission(auth.PermOrdersView), h.List)
		orders.GET("/:id", middleware.RequirePermission(auth.PermOrdersView), h.Get)
		orders.POST("", middleware.RequirePermission(auth.PermOrdersManage), h.Create)
		orders.POST("/:id/confirm", middleware.RequirePermission(auth.PermOrdersManage), h.Confirm)
		orders.POST("/:id/ship", middleware.RequirePermission(auth.PermOrdersManage), h.Ship)
		orders.POST("/:id/deliver", middleware.RequirePermission(auth.PermOrdersManage), h.Deliver)
		orders.POST("/:id/cancel", middleware.RequirePermission(auth.PermOrdersManage), h.Cancel)
		orders.POST("/:id/payments", middleware.RequirePermission(auth.PermOrdersPayment), h.RecordPayment)
	}
}

func (h *OrderHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.OrderFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		CustomerID: queryID(c, "customer_id"),
		ShopID:     queryID(c, "shop_id"),
		From:       queryTime(c, "from"),
		To:         queryTime(c, "to"),
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter, p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("orders", orders, pagination.NewMeta(p, total, len(orders)), tenantInfo(c)))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("order", order, tenantInfo(c)))
}

// Create places an order: the order, its items and the stock movements
// either all commit or none do
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("order created", order, tenantInfo(c)))
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm, "order confirmed")
}

func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.orderService.Ship, "order shipped")
}

func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.orderService.Deliver, "order delivered")
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderService.Cancel, "order cancelled")
}

func (h *OrderHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Order, error), message string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := fn(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(message, order, tenantInfo(c)))
}

func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("payment recorded", order, tenantInfo(c)))
}
