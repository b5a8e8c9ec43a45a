package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/scope"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.RequireAuth(), h.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.Me)
		auth.POST("/change-password", middleware.RequireAuth(), h.ChangePassword)
	}
}

// Login authenticates by email and password, creating a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	client := scope.ClientFrom(c.Request.Context())
	result, err := h.authService.Login(c.Request.Context(), req, client.IP, client.UserAgent)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("login successful", result, tenantInfo(c)))
}

// Logout terminates the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("logged out", nil, tenantInfo(c)))
}

// Me returns the authenticated user with effective permissions
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.authService.Me(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("profile", me, tenantInfo(c)))
}

// ChangePassword updates the password and terminates the user's other sessions
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("password changed", nil, tenantInfo(c)))
}
