package handler

import (
	"errors"
	"net/http"

	"hermandad/internal/constants"
	"hermandad/internal/middleware"
	"hermandad/internal/service"
	"hermandad/internal/session"
	"hermandad/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登录与登出
type AuthHandler struct {
	userService service.UserService
	sessions    *session.Manager
	logger      *logger.Logger
}

// NewAuthHandler 创建登录处理器实例
func NewAuthHandler(userService service.UserService, sessions *session.Manager, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		logger:      logger,
	}
}

// LoginForm 登录页 GET /acceso-interno
func (h *AuthHandler) LoginForm(c *gin.Context) {
	renderPage(c, h.sessions, http.StatusOK, "login.html", gin.H{"Title": "Acceso"})
}

// Login 提交登录 POST /acceso-interno
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.userService.Authenticate(c.Request.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.logger.Warn("登录失败", "username", username, "client_ip", c.ClientIP())
		_ = h.sessions.AddFlash(c, constants.ErrAuthFailed)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}
	if err != nil {
		h.logger.Error("登录时查询用户失败", "error", err)
		renderInternalError(c, h.sessions)
		return
	}

	if err := h.sessions.Login(c, user); err != nil {
		h.logger.Error("保存会话失败", "error", err)
		renderInternalError(c, h.sessions)
		return
	}

	h.logger.Info("登录成功", "username", user.Username, "role", user.Role)
	c.Redirect(http.StatusSeeOther, "/panel")
}

// Logout 登出 GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		h.logger.Warn("清除会话失败", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
