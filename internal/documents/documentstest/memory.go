// Package documentstest provides an in-memory documents repository for tests.
package documentstest

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/smartstock/smartstock/internal/documents"
)

// Repository is a concurrency-safe in-memory documents.RepositoryPort that
// enforces number uniqueness per kind.
type Repository struct {
	mu     sync.Mutex
	docs   map[int64]documents.Document
	nextID int64
	clock  time.Time

	// BeforeFindReturn, when set, runs after a series lookup and before its
	// result is returned.
	BeforeFindReturn func()
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		docs:  make(map[int64]documents.Document),
		clock: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

type tx struct {
	repo *Repository
}

// WithTx implements documents.RepositoryPort.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, documents.TxRepository) error) error {
	return fn(ctx, &tx{repo: r})
}

// Get implements documents.RepositoryPort.
func (r *Repository) Get(_ context.Context, kind documents.Kind, id int64) (documents.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.Kind != kind {
		return documents.Document{}, documents.ErrNotFound
	}
	return doc, nil
}

// List implements documents.RepositoryPort.
func (r *Repository) List(_ context.Context, kind documents.Kind, filter documents.ListFilter) ([]documents.Document, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []documents.Document
	for _, doc := range r.docs {
		if doc.Kind != kind {
			continue
		}
		if s := filter.Supplier; s != "" && doc.Supplier.Code != s && doc.Supplier.Name != s {
			continue
		}
		if s := strings.ToLower(filter.Search); s != "" &&
			!strings.Contains(strings.ToLower(doc.Number), s) &&
			!strings.Contains(strings.ToLower(doc.Supplier.Name), s) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	total := len(out)
	if filter.Limit > 0 {
		start := min(filter.Offset, len(out))
		end := min(start+filter.Limit, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

// Delete implements documents.RepositoryPort.
func (r *Repository) Delete(_ context.Context, kind documents.Kind, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.Kind != kind {
		return documents.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

// Put stores doc directly, assigning an ID and timestamps when missing.
func (r *Repository) Put(doc documents.Document) documents.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeLocked(doc)
}

// Len returns the number of stored documents.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func (r *Repository) storeLocked(doc documents.Document) documents.Document {
	if doc.ID == 0 {
		r.nextID++
		doc.ID = r.nextID
	}
	if doc.CreatedAt.IsZero() {
		r.clock = r.clock.Add(time.Second)
		doc.CreatedAt = r.clock
	}
	doc.UpdatedAt = doc.CreatedAt
	r.docs[doc.ID] = doc
	return doc
}

func (t *tx) FindMostRecentInSeries(_ context.Context, kind documents.Kind) (*documents.Document, error) {
	prefix := kind.Series() + "-"
	series := regexp.MustCompile(documents.SeriesPattern(kind.Series()))
	t.repo.mu.Lock()
	var (
		best    *documents.Document
		bestNum int64 = -1
	)
	for _, doc := range t.repo.docs {
		if doc.Kind != kind {
			continue
		}
		if !series.MatchString(doc.Number) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(doc.Number, prefix), 10, 64)
		if err != nil {
			continue
		}
		if n > bestNum {
			d := doc
			best, bestNum = &d, n
		}
	}
	t.repo.mu.Unlock()
	if t.repo.BeforeFindReturn != nil {
		t.repo.BeforeFindReturn()
	}
	return best, nil
}

func (t *tx) Insert(_ context.Context, doc documents.Document) (documents.Document, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for _, existing := range t.repo.docs {
		if existing.Kind == doc.Kind && existing.Number == doc.Number {
			return documents.Document{}, documents.ErrConflict
		}
	}
	doc.ID = 0
	return t.repo.storeLocked(doc), nil
}

func (t *tx) GetForUpdate(ctx context.Context, kind documents.Kind, id int64) (documents.Document, error) {
	return t.repo.Get(ctx, kind, id)
}

func (t *tx) Update(_ context.Context, doc documents.Document) (documents.Document, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	current, ok := t.repo.docs[doc.ID]
	if !ok || current.Kind != doc.Kind {
		return documents.Document{}, documents.ErrNotFound
	}
	doc.CreatedAt = current.CreatedAt
	t.repo.clock = t.repo.clock.Add(time.Second)
	doc.UpdatedAt = t.repo.clock
	t.repo.docs[doc.ID] = doc
	return doc, nil
}
