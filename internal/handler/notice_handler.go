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

type NoticeHandler struct {
	noticeService service.NoticeService
}

func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

func (h *NoticeHandler) RegisterRoutes(router *gin.RouterGroup) {
	notices := router.Group("/api/notices", middleware.RequireTenant())
	{
		notices.GET("", middleware.RequirePermission(auth.PermNoticesView), h.List)
		notices.GET("/:id", middleware.RequirePermission(auth.PermNoticesView), h.Get)
		notices.POST("", middleware.RequirePermission(auth.PermNoticesManage), h.Create)
		notices.PUT("/:id", middleware.RequirePermission(auth.PermNoticesManage), h.Update)
		notices.DELETE("/:id", middleware.RequirePermission(auth.PermNoticesManage), h.Delete)
	}
}

func (h *NoticeHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	notices, total, err := h.noticeService.List(c.Request.Context(), c.Query("level"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List("notices", notices, pagination.NewMeta(p, total, len(notices)), tenantInfo(c)))
}

func (h *NoticeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	notice, err := h.noticeService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("notice", notice, tenantInfo(c)))
}

// Create publishes the notice to the tenant's websocket subscribers as well
func (h *NoticeHandler) Create(c *gin.Context) {
	var req service.NoticeRequest
	if !bindJSON(c, &req) {
		return
	}
	notice, err := h.noticeService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("notice published", notice, tenantInfo(c)))
}

func (h *NoticeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.NoticeRequest
	if !bindJSON(c, &req) {
		return
	}
	notice, err := h.noticeService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("notice updated", notice, tenantInfo(c)))
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.noticeService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("notice deleted", nil, tenantInfo(c)))
}
