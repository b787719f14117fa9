package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/shared"
)

func sessionRequest(t *testing.T, userID, role string) *http.Request {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	manager := shared.NewSessionManager(client, "smartstock_session", 0, false)

	req := httptest.NewRequest(http.MethodGet, "/api/create-account", nil)
	sess, err := manager.Load(req.Context(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetUser(userID, role)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func TestRequireRole(t *testing.T) {
	guard := Middleware{}.RequireRole(RoleManager, RoleAdmin)(okHandler())

	cases := []struct {
		name   string
		user   string
		role   string
		status int
	}{
		{name: "anonymous", status: http.StatusUnauthorized},
		{name: "plain user", user: "3", role: RoleUser, status: http.StatusForbidden},
		{name: "manager", user: "1", role: RoleManager, status: http.StatusNoContent},
		{name: "admin mixed case", user: "2", role: "Admin", status: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			guard.ServeHTTP(rr, sessionRequest(t, tc.user, tc.role))
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	guard := Middleware{}.RequireAuth(okHandler())

	rr := httptest.NewRecorder()
	guard.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	guard.ServeHTTP(rr, sessionRequest(t, "9", RoleUser))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCurrentUserID(t *testing.T) {
	id, ok := CurrentUserID(sessionRequest(t, "42", RoleUser))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = CurrentUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, ValidRole(" Manager "))
	assert.False(t, ValidRole("owner"))
	assert.True(t, IsManager("admin"))
	assert.False(t, IsManager("user"))
}
