package documents

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smartstock/smartstock/internal/platform/httpx"
	"github.com/smartstock/smartstock/internal/rbac"
	"github.com/smartstock/smartstock/internal/shared"
)

// Resource exposes CRUD endpoints for a single document kind.
type Resource struct {
	logger  *slog.Logger
	service *Service
	kind    Kind
	guard   rbac.Middleware
}

// NewResource builds a Resource for kind. Every route requires a login and
// deletes are limited to managers.
func NewResource(logger *slog.Logger, service *Service, kind Kind, guard rbac.Middleware) *Resource {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resource{logger: logger.With(slog.String("kind", string(kind))), service: service, kind: kind, guard: guard}
}

// Routes returns a router serving the collection and its members.
func (res *Resource) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(res.guard.RequireAuth)
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.With(res.guard.RequireRole(rbac.RoleManager, rbac.RoleAdmin)).Delete("/{id}", res.remove)
	return r
}

// ListResponse is the envelope for document listings.
type ListResponse struct {
	Data       []Document        `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (res *Resource) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	q := r.URL.Query()
	filter := ListFilter{
		Supplier: strings.TrimSpace(q.Get("supplier")),
		Search:   strings.TrimSpace(q.Get("search")),
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	}
	docs, total, err := res.service.List(r.Context(), res.kind, filter)
	if err != nil {
		res.fail(w, "list documents", err)
		return
	}
	if docs == nil {
		docs = []Document{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	httpx.JSON(w, http.StatusOK, ListResponse{Data: docs, Pagination: shared.NewPagination(page, perPage, total)})
}

func (res *Resource) create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := res.service.Create(r.Context(), res.kind, in)
	if err != nil {
		res.fail(w, "create document", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (res *Resource) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := res.service.Get(r.Context(), res.kind, id)
	if err != nil {
		res.fail(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (res *Resource) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	in, err := decodeInput(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := res.service.Update(r.Context(), res.kind, id, in)
	if err != nil {
		res.fail(w, "update document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (res *Resource) remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := rbac.CurrentUserID(r)
	if err := res.service.Delete(r.Context(), res.kind, id, actor); err != nil {
		res.fail(w, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (res *Resource) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		res.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func decodeInput(r *http.Request) (Input, error) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		return Input{}, err
	}
	in.ActorID, _ = rbac.CurrentUserID(r)
	return in, nil
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrValidation, raw)
	}
	return id, nil
}
