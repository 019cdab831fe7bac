package middleware

import (
	"net/http"

	"hermandad/internal/constants"
	"hermandad/internal/model"
	"hermandad/internal/session"

	"github.com/gin-gonic/gin"
)

// LoginPath 隐藏的登录入口
const LoginPath = "/acceso-interno"

const identityKey = "identity"

// RequireSession 未登录时重定向到登录页
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := sessions.Identity(c)
		if identity == nil {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole 角色不符时拒绝操作并回到 redirectTo，需在 RequireSession 之后使用
func RequireRole(sessions *session.Manager, role, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).HasRole(role) {
			_ = sessions.AddFlash(c, constants.ErrInsufficientPermission)
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity 返回 RequireSession 写入的身份
func CurrentIdentity(c *gin.Context) *model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}
