package session

import (
	"net/http"

	"hermandad/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	cookieName  = "hermandad_session"
	keyUsername = "user"
	keyRole     = "role"
)

// Manager 基于签名Cookie的会话管理
type Manager struct {
	store *sessions.CookieStore
}

// NewManager 创建会话管理器
func NewManager(secret string, maxAge int, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

func (m *Manager) get(c *gin.Context) *sessions.Session {
	// 签名无效时返回的是一个新的空会话
	sess, _ := m.store.Get(c.Request, cookieName)
	return sess
}

// Identity 返回当前登录身份，未登录时为 nil
func (m *Manager) Identity(c *gin.Context) *model.Identity {
	sess := m.get(c)
	username, _ := sess.Values[keyUsername].(string)
	if username == "" {
		return nil
	}
	role, _ := sess.Values[keyRole].(string)
	return &model.Identity{Username: username, Role: role}
}

// Login 登录成功后写入用户名与角色
func (m *Manager) Login(c *gin.Context, user *model.User) error {
	sess := m.get(c)
	sess.Values[keyUsername] = user.Username
	sess.Values[keyRole] = user.Role
	return sess.Save(c.Request, c.Writer)
}

// Logout 清空会话并让Cookie过期
func (m *Manager) Logout(c *gin.Context) error {
	sess := m.get(c)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}

// AddFlash 添加一次性提示消息
func (m *Manager) AddFlash(c *gin.Context, msg string) error {
	sess := m.get(c)
	sess.AddFlash(msg)
	return sess.Save(c.Request, c.Writer)
}

// Flashes 取出并清除提示消息
func (m *Manager) Flashes(c *gin.Context) []string {
	sess := m.get(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request, c.Writer)

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
