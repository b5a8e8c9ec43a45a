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

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/expenses", middleware.RequireTenant())
	{
		expenses.GET("", middleware.RequirePermission(auth.PermExpensesView), h.List)
		expenses.GET("/:id", middleware.RequirePermission(auth.PermExpensesView), h.Get)
		expenses.POST("", middleware.RequirePermission(auth.PermExpensesManage), h.Create)
		expenses.PUT("/:id", middleware.RequirePermission(auth.PermExpensesManage), h.Update)
		expenses.DELETE("/:id", middleware.RequirePermission(auth.PermExpensesManage), h.Delete)
		expenses.POST("/:id/approve", middleware.RequirePermission(auth.PermExpensesApprove), h.Approve)
		expenses.POST("/:id/reject", middleware.RequirePermission(auth.PermExpensesApprove), h.Reject)
		expenses.POST("/:id/pay", middleware.RequirePermission(auth.PermExpensesApprove), h.Pay)
	}
}

func (h *ExpenseHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.ExpenseFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		From:     queryTime(c, "from"),
		To:       queryTime(c, "to"),
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), filter, p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("expenses", expenses, pagination.NewMeta(p, total, len(expenses)), tenantInfo(c)))
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenseService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("expense", expense, tenantInfo(c)))
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req service.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("expense created", expense, tenantInfo(c)))
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("expense updated", expense, tenantInfo(c)))
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("expense deleted", nil, tenantInfo(c)))
}

func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.transition(c, h.expenseService.Approve, "expense approved")
}

func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.transition(c, h.expenseService.Reject, "expense rejected")
}

func (h *ExpenseHandler) Pay(c *gin.Context) {
	h.transition(c, h.expenseService.Pay, "expense paid")
}

func (h *ExpenseHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Expense, error), message string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	expense, err := fn(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(message, expense, tenantInfo(c)))
}
