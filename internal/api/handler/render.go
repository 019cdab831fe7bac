package handler

import (
	"net/http"

	"hermandad/internal/constants"
	"hermandad/internal/session"

	"github.com/gin-gonic/gin"
)

// renderPage 渲染页面时附带会话中的提示消息
func renderPage(c *gin.Context, sessions *session.Manager, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = sessions.Flashes(c)
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, sessions *session.Manager, status int, msg string) {
	renderPage(c, sessions, status, "error.html", gin.H{"Title": http.StatusText(status), "Error": msg})
}

func renderInternalError(c *gin.Context, sessions *session.Manager) {
	renderError(c, sessions, http.StatusInternalServerError, constants.ErrInternalServer)
}
