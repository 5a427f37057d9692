package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred/internal/domain"
	"kindred/internal/session"
	"kindred/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter wires both guards in front of a handler echoing the session email
func newRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	_, rdb := testutil.NewRedis(t)
	sessions := session.NewManager(rdb, "test-secret", time.Hour)

	r := gin.New()
	echo := func(c *gin.Context) {
		info, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"email": info.Email})
	}
	r.GET("/me", SessionAuthMiddleware(sessions), echo)
	r.GET("/admin", SessionAuthMiddleware(sessions), AdminOnlyMiddleware(), echo)
	r.GET("/unguarded-admin", AdminOnlyMiddleware(), echo)
	return r, sessions
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, sessions *session.Manager, role domain.Role) string {
	t.Helper()
	token, _, err := sessions.Create(context.Background(), &domain.User{ID: 1, Name: "U", Email: "u@x.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestSessionAuthMiddleware(t *testing.T) {
	r, sessions := newRouter(t)

	w := get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Not authenticated."}`, w.Body.String())

	w = get(r, "/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/me", login(t, sessions, domain.RoleVolunteer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"u@x.com"}`, w.Body.String())
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r, sessions := newRouter(t)

	// Authentication is checked before the role
	w := get(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, role := range []domain.Role{domain.RoleVolunteer, domain.RoleParticipant} {
		w = get(r, "/admin", login(t, sessions, role))
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
		assert.JSONEq(t, `{"message":"Admin access required."}`, w.Body.String())
	}

	w = get(r, "/admin", login(t, sessions, domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyMiddleware_WithoutSession(t *testing.T) {
	r, sessions := newRouter(t)
	w := get(r, "/unguarded-admin", login(t, sessions, domain.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
