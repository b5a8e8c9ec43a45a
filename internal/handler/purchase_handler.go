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

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchases := router.Group("/api/purchases", middleware.RequireTenant())
	{
		purchases.GET("", middleware.RequirePermission(auth.PermPurchasesView), h.List)
		purchases.GET("/:id", middleware.RequirePermission(auth.PermPurchasesView), h.Get)
		purchases.POST("", middleware.RequirePermission(auth.PermPurchasesManage), h.Create)
		purchases.PUT("/:id", middleware.RequirePermission(auth.PermPurchasesManage), h.Update)
		purchases.DELETE("/:id", middleware.RequirePermission(auth.PermPurchasesManage), h.Delete)
		purchases.POST("/:id/order", middleware.RequirePermission(auth.PermPurchasesManage), h.MarkOrdered)
		purchases.POST("/:id/receive", middleware.RequirePermission(auth.PermPurchasesManage), h.Receive)
		purchases.POST("/:id/cancel", middleware.RequirePermission(auth.PermPurchasesManage), h.Cancel)
	}
}

func (h *PurchaseHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.PurchaseFilter{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		SupplierID:  queryID(c, "supplier_id"),
		WarehouseID: queryID(c, "warehouse_id"),
		From:        queryTime(c, "from"),
		To:          queryTime(c, "to"),
	}

	purchases, total, err := h.purchaseService.List(c.Request.Context(), filter, p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("purchases", purchases, pagination.NewMeta(p, total, len(purchases)), tenantInfo(c)))
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	purchase, err := h.purchaseService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("purchase", purchase, tenantInfo(c)))
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	var req service.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	purchase, err := h.purchaseService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("purchase created", purchase, tenantInfo(c)))
}

// Update edits a draft purchase in place
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	purchase, err := h.purchaseService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("purchase updated", purchase, tenantInfo(c)))
}

func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.purchaseService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("purchase deleted", nil, tenantInfo(c)))
}

func (h *PurchaseHandler) MarkOrdered(c *gin.Context) {
	h.transition(c, h.purchaseService.MarkOrdered, "purchase ordered")
}

func (h *PurchaseHandler) Receive(c *gin.Context) {
	h.transition(c, h.purchaseService.Receive, "purchase received")
}

func (h *PurchaseHandler) Cancel(c *gin.Context) {
	h.transition(c, h.purchaseService.Cancel, "purchase cancelled")
}

func (h *PurchaseHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Purchase, error), message string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	purchase, err := fn(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(message, purchase, tenantInfo(c)))
}
