package categories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/rbac"
	internalShared "github.com/smartstock/smartstock/internal/shared"
)

type memoryRepo struct {
	rows []Category
}

func (m *memoryRepo) List(context.Context, shared.ListFilters) ([]Category, int, error) {
	return m.rows, len(m.rows), nil
}

func (m *memoryRepo) Create(_ context.Context, c Category) (Category, error) {
	for _, row := range m.rows {
		if row.Code == c.Code {
			return Category{}, shared.ErrDuplicate
		}
	}
	c.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, c)
	return c, nil
}

func (m *memoryRepo) Update(_ context.Context, code string, c Category) (Category, error) {
	for i, row := range m.rows {
		if row.Code == code {
			c.ID = row.ID
			m.rows[i] = c
			return c, nil
		}
	}
	return Category{}, shared.ErrNotFound
}

func (m *memoryRepo) Delete(_ context.Context, code string) error {
	for i, row := range m.rows {
		if row.Code == code {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestCategoryEndpoints(t *testing.T) {
	repo := &memoryRepo{}
	h := NewHandler(nil, NewService(repo), rbac.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &internalShared.Session{ID: "s"}
			sess.SetUser("1", rbac.RoleAdmin)
			next.ServeHTTP(w, req.WithContext(internalShared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/api/categories", h.MountRoutes)

	rr := serve(t, r, http.MethodPost, "/api/categories", `{"code":"HW","description":"Hardware"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = serve(t, r, http.MethodPost, "/api/categories", `{"code":"HW"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = serve(t, r, http.MethodPost, "/api/categories", `{"description":"no code"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"required"`)

	rr = serve(t, r, http.MethodPut, "/api/categories/HW", `{"description":"Tools"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Tools", repo.rows[0].Description)
	assert.Equal(t, "HW", repo.rows[0].Code)

	rr = serve(t, r, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	rr = serve(t, r, http.MethodDelete, "/api/categories/HW", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = serve(t, r, http.MethodDelete, "/api/categories/HW", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
