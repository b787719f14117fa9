package inventory

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/documents"
	"github.com/smartstock/smartstock/internal/documents/documentstest"
	"github.com/smartstock/smartstock/internal/rbac"
	"github.com/smartstock/smartstock/internal/shared"
)

func TestIssueNoteLifecycle(t *testing.T) {
	repo := documentstest.NewRepository()
	h := NewHandler(nil, documents.NewService(repo, shared.NopAudit{}), rbac.Middleware{})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &shared.Session{ID: "s"}
			sess.SetUser("3", rbac.RoleManager)
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/api", h.MountRoutes)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rr
	}

	rr := do(http.MethodPost, "/api/issue-notes", `{"header": {"department": "Stores", "personName": "Saman", "event": "Annual day", "code": "A1", "item": "Bolt", "qty": "4"}}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), `"number":"IN-001"`)
	require.Contains(t, rr.Body.String(), `"quantity":"4"`)

	rr = do(http.MethodPost, "/api/issue-notes", `{"header": {"department": "Stores"}, "items": [{"code": "A1"}]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "personName")

	rr = do(http.MethodGet, "/api/issue-notes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "1", rr.Header().Get("X-Total-Count"))

	rr = do(http.MethodDelete, "/api/issue-notes/1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Zero(t, repo.Len())
}
