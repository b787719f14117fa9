package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartstock/smartstock/internal/auth"
	"github.com/smartstock/smartstock/internal/rbac"
	"github.com/smartstock/smartstock/internal/shared"
	"github.com/smartstock/smartstock/jobs"
	_ "github.com/smartstock/smartstock/testing"
)

type stubRepo struct {
	account  *auth.Account
	sessions map[string]int64
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	if s.account == nil || !strings.EqualFold(s.account.Email, email) {
		return nil, auth.ErrNotFound
	}
	return s.account, nil
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*auth.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, auth.ErrNotFound
	}
	return s.account, nil
}

func (s *stubRepo) Create(_ context.Context, a auth.Account) (*auth.Account, error) {
	a.ID = 99
	return &a, nil
}

func (s *stubRepo) UpdatePassword(context.Context, int64, string) error { return nil }

func (s *stubRepo) CreateSession(_ context.Context, id string, accountID int64, _ time.Time, _, _ string) error {
	s.sessions[id] = accountID
	return nil
}

func (s *stubRepo) DeleteSession(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type nopMailer struct{}

func (nopMailer) QueueEmail(context.Context, jobs.SendEmailPayload) error { return nil }

type harness struct {
	handler  http.Handler
	sessions *shared.SessionManager
	repo     *stubRepo
}

func newHarness(t *testing.T, role string) harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubRepo{
		account:  &auth.Account{ID: 1, Email: "boss@example.com", Role: role, PasswordHash: string(hash)},
		sessions: make(map[string]int64),
	}
	sessions := shared.NewSessionManager(client, "smartstock_session", time.Hour, false)
	svc := auth.NewService(repo, auth.NewOTPStore(client, time.Minute, time.Minute), nopMailer{}).WithHashCost(bcrypt.MinCost)
	h := auth.NewHandler(nil, svc, sessions, shared.NewCSRFManager("csrf"), rbac.Middleware{})

	r := chi.NewRouter()
	r.Use(shared.SessionMiddleware(sessions, nil))
	r.Route("/api", h.MountRoutes)
	return harness{handler: r, sessions: sessions, repo: repo}
}

func (h harness) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func TestLoginManager(t *testing.T) {
	h := newHarness(t, "manager")

	rr := h.do(http.MethodPost, "/api/login", `{"email":"boss@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["isManager"])
	assert.Len(t, h.repo.sessions, 1)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	me := h.do(http.MethodGet, "/api/auth/me", "", cookies...)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "boss@example.com")
	assert.NotContains(t, me.Body.String(), "password")
}

func TestLoginUserIsNotManager(t *testing.T) {
	h := newHarness(t, "user")
	rr := h.do(http.MethodPost, "/api/login", `{"email":"boss@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"isManager":false`)

	create := h.do(http.MethodPost, "/api/create-account", `{"email":"new@example.com","password":"password1"}`, rr.Result().Cookies()...)
	assert.Equal(t, http.StatusForbidden, create.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newHarness(t, "manager")
	rr := h.do(http.MethodPost, "/api/login", `{"email":"boss@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)

	rr = h.do(http.MethodPost, "/api/login", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateAccountRequiresLogin(t *testing.T) {
	h := newHarness(t, "manager")
	rr := h.do(http.MethodPost, "/api/create-account", `{"email":"new@example.com","password":"password1"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	login := h.do(http.MethodPost, "/api/login", `{"email":"boss@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, login.Code)

	rr = h.do(http.MethodPost, "/api/create-account", `{"email":"new@example.com","password":"password1","role":"user"}`, login.Result().Cookies()...)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "new@example.com")

	rr = h.do(http.MethodPost, "/api/create-account", `{"email":"boss@example.com","password":"password1"}`, login.Result().Cookies()...)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSendOTPUnknownEmailIs404(t *testing.T) {
	h := newHarness(t, "user")
	rr := h.do(http.MethodPost, "/api/send-otp", `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = h.do(http.MethodPost, "/api/send-otp", `{"email":"boss@example.com"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(http.MethodPost, "/api/verify-otp", `{"email":"boss@example.com","otp":"12"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(http.MethodPost, "/api/reset-password", `{"email":"boss@example.com","newPassword":"password2"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, "manager")
	login := h.do(http.MethodPost, "/api/login", `{"email":"boss@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, login.Code)

	rr := h.do(http.MethodPost, "/api/logout", "", login.Result().Cookies()...)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, h.repo.sessions)

	me := h.do(http.MethodGet, "/api/auth/me", "", login.Result().Cookies()...)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}
