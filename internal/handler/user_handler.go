package handler

import (
	"net/http"
	"strconv"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users", middleware.RequireTenant())
	{
		users.GET("", middleware.RequirePermission(auth.PermUsersView), h.List)
		users.GET("/:id", middleware.RequirePermission(auth.PermUsersView), h.Get)
		users.POST("", middleware.RequirePermission(auth.PermUsersManage), h.Create)
		users.PUT("/:id", middleware.RequirePermission(auth.PermUsersManage), h.Update)
		users.DELETE("/:id", middleware.RequirePermission(auth.PermUsersManage), h.Disable)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	}
	if raw := c.Query("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	users, total, err := h.userService.List(c.Request.Context(), filter, p.Page, p.PerPage, p.Sort, p.Order)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("users", users, pagination.NewMeta(p, total, len(users)), tenantInfo(c)))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("user", user, tenantInfo(c)))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("user created", user, tenantInfo(c)))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("user updated", user, tenantInfo(c)))
}

// Disable soft-disables the account instead of deleting the row
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Disable(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("user disabled", nil, tenantInfo(c)))
}
