package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hermandad/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(cookies []*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		c.Request.AddCookie(cookie)
	}
	return c, w
}

func TestManager_LoginIdentityLogout(t *testing.T) {
	m := NewManager("test-secret", 3600, false)

	c, _ := newContext(nil)
	assert.Nil(t, m.Identity(c))

	c, w := newContext(nil)
	require.NoError(t, m.Login(c, &model.User{Username: "director", Role: model.RoleDirector}))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	c, _ = newContext(cookies)
	identity := m.Identity(c)
	require.NotNil(t, identity)
	assert.Equal(t, "director", identity.Username)
	assert.True(t, identity.HasRole(model.RoleDirector))

	c, w = newContext(cookies)
	require.NoError(t, m.Logout(c))
	expired := w.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.True(t, expired[0].MaxAge < 0)
}

func TestManager_TamperedCookieIsAnonymous(t *testing.T) {
	m := NewManager("test-secret", 3600, false)
	other := NewManager("other-secret", 3600, false)

	c, w := newContext(nil)
	require.NoError(t, other.Login(c, &model.User{Username: "director", Role: model.RoleDirector}))

	c, _ = newContext(w.Result().Cookies())
	assert.Nil(t, m.Identity(c))
}

func TestManager_Flashes(t *testing.T) {
	m := NewManager("test-secret", 3600, false)

	c, w := newContext(nil)
	require.NoError(t, m.AddFlash(c, "hola"))

	c, _ = newContext(w.Result().Cookies())
	assert.Equal(t, []string{"hola"}, m.Flashes(c))
}
