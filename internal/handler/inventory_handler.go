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

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory", middleware.RequireTenant())
	{
		inventory.GET("/movements", middleware.RequirePermission(auth.PermInventoryView), h.ListMovements)
		inventory.POST("/adjust", middleware.RequirePermission(auth.PermInventoryAdjust), h.Adjust)
	}
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.MovementFilter{
		ProductID:   queryID(c, "product_id"),
		WarehouseID: queryID(c, "warehouse_id"),
		Direction:   c.Query("direction"),
		From:        queryTime(c, "from"),
		To:          queryTime(c, "to"),
	}

	movements, total, err := h.inventoryService.List(c.Request.Context(), filter, p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("inventory movements", movements, pagination.NewMeta(p, total, len(movements)), tenantInfo(c)))
}

// Adjust sets a product's stock to a counted value, recording the correction
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req service.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	movement, err := h.inventoryService.Adjust(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("stock adjusted", movement, tenantInfo(c)))
}
