package shared

import (
	"net/http"
	"strings"

	internalShared "github.com/smartstock/smartstock/internal/shared"
)

// ListFilters represents standard list filters. A zero Limit lists everything.
type ListFilters struct {
	Search string
	Limit  int
	Offset int
}

// FiltersFromRequest reads search, page and per_page. Pagination applies only
// when page or per_page is present.
func FiltersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{Search: strings.TrimSpace(q.Get("search"))}
	if q.Has("page") || q.Has("per_page") {
		page, perPage := internalShared.PageParams(r)
		f.Limit = perPage
		f.Offset = (page - 1) * perPage
	}
	return f
}

// LikePattern escapes LIKE wildcards in term and wraps it for substring matching.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
