package items

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/rbac"
	internalShared "github.com/smartstock/smartstock/internal/shared"
)

func newTestRouter(repo *memoryRepo, images *fakeImages, role string) http.Handler {
	h := NewHandler(nil, NewService(repo, images, nil), rbac.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &internalShared.Session{ID: "s"}
			sess.SetUser("1", role)
			next.ServeHTTP(w, req.WithContext(internalShared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/api/items", h.MountRoutes)
	return r
}

func TestCreateItemMultipart(t *testing.T) {
	repo, images := newMemoryRepo(), newFakeImages()
	router := newTestRouter(repo, images, rbac.RoleUser)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("itemCode", "A-1"))
	require.NoError(t, mw.WriteField("unitPrice", "10"))
	require.NoError(t, mw.WriteField("description", "Bolt"))
	fw, err := mw.CreateFormFile("image", "bolt.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Item    Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "A-1", resp.Item.ItemCode)
	assert.Equal(t, "/uploads/img1.png", resp.Item.ImagePath)
	assert.Equal(t, "png", images.saved["/uploads/img1.png"])
}

func TestCreateItemJSONAcceptsNumbers(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo, newFakeImages(), rbac.RoleUser)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"itemCode":"N-1","unitPrice":5,"reOrder":"3"}`)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "5", repo.items["N-1"].UnitPrice)
	assert.Equal(t, "3", repo.items["N-1"].ReOrder)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"itemCode":"N-1"}`)))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestItemRoutes(t *testing.T) {
	repo := newMemoryRepo()
	repo.items["A-1"] = Item{ID: 1, ItemCode: "A-1", Description: "Bolt", RackNumber: "R1"}
	user := newTestRouter(repo, newFakeImages(), rbac.RoleUser)

	rr := httptest.NewRecorder()
	user.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items/search?q=bol", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"itemCode":"A-1"`)

	rr = httptest.NewRecorder()
	user.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	user.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/items/A-1", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	manager := newTestRouter(repo, newFakeImages(), rbac.RoleManager)
	rr = httptest.NewRecorder()
	manager.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/items/A-1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.items)
}
