package documents

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smartstock/smartstock/internal/shared"
)

// DefaultNumberAttempts bounds how often Create re-numbers after a conflict.
const DefaultNumberAttempts = 5

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, kind Kind, id int64) (Document, error)
	List(ctx context.Context, kind Kind, filter ListFilter) ([]Document, int, error)
	Delete(ctx context.Context, kind Kind, id int64) error
}

// TxRepository exposes operations that run inside a transaction.
type TxRepository interface {
	// FindMostRecentInSeries returns the document holding the highest number
	// of the kind's series, or nil when the series is empty.
	FindMostRecentInSeries(ctx context.Context, kind Kind) (*Document, error)
	// Insert stores doc and returns ErrConflict if its number is taken.
	Insert(ctx context.Context, doc Document) (Document, error)
	GetForUpdate(ctx context.Context, kind Kind, id int64) (Document, error)
	// Update replaces doc and returns ErrNotFound when it does not exist.
	Update(ctx context.Context, doc Document) (Document, error)
}

// Service orchestrates document workflows.
type Service struct {
	repo        RepositoryPort
	assembler   Assembler
	audit       shared.AuditRecorder
	maxAttempts int
	onConflict  func(Kind)
}

// Option customises a Service.
type Option func(*Service)

// WithStrictNumbers rejects malformed or negative numeric input.
func WithStrictNumbers(strict bool) Option {
	return func(s *Service) { s.assembler.Strict = strict }
}

// WithClock overrides the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.assembler.Now = now }
}

// WithNumberAttempts sets how many numbering attempts Create makes.
func WithNumberAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithConflictObserver registers a callback invoked on every numbering conflict.
func WithConflictObserver(fn func(Kind)) Option {
	return func(s *Service) { s.onConflict = fn }
}

// NewService constructs the document service.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, opts ...Option) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	s := &Service{repo: repo, audit: audit, maxAttempts: DefaultNumberAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview assembles a document without storing it. Numbers are not assigned.
func (s *Service) Preview(kind Kind, in Input) (Document, error) {
	return s.assembler.Prepare(kind, in.Header, in.Items, in.Discount)
}

// Create assembles and stores a new document. Documents without a caller
// supplied number are numbered from their series; when another writer takes
// the same number first, numbering and insert are retried.
func (s *Service) Create(ctx context.Context, kind Kind, in Input) (Document, error) {
	autoNumber := strings.TrimSpace(in.Header.Number) == ""
	var created Document
	for attempt := 1; ; attempt++ {
		err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			var prior *Document
			if autoNumber {
				var err error
				prior, err = tx.FindMostRecentInSeries(ctx, kind)
				if err != nil {
					return err
				}
			}
			doc, err := s.assembler.AssembleDocument(kind, in.Header, in.Items, in.Discount, prior)
			if err != nil {
				return err
			}
			created, err = tx.Insert(ctx, doc)
			return err
		})
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConflict) || !autoNumber {
			return Document{}, err
		}
		if s.onConflict != nil {
			s.onConflict(kind)
		}
		if attempt >= s.maxAttempts {
			return Document{}, fmt.Errorf("%w after %d attempts", err, attempt)
		}
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
	}
	s.record(ctx, in.ActorID, "create", created)
	return created, nil
}

// Get returns a single document.
func (s *Service) Get(ctx context.Context, kind Kind, id int64) (Document, error) {
	return s.repo.Get(ctx, kind, id)
}

// List returns documents of kind, newest first, and the total match count.
func (s *Service) List(ctx context.Context, kind Kind, filter ListFilter) ([]Document, int, error) {
	if !kind.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s.repo.List(ctx, kind, filter)
}

// Update replaces the editable fields of a document and recomputes every
// derived figure. The number cannot change; an omitted date keeps the stored one.
func (s *Service) Update(ctx context.Context, kind Kind, id int64, in Input) (Document, error) {
	var updated Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		h := in.Header
		if n := strings.TrimSpace(h.Number); n != "" && n != current.Number {
			verr := &ValidationError{}
			verr.add("number", "cannot be changed")
			return verr
		}
		h.Number = current.Number
		if h.Date == nil || h.Date.IsZero() {
			d := current.Date
			h.Date = &d
		}
		doc, err := s.assembler.AssembleDocument(kind, h, in.Items, in.Discount, nil)
		if err != nil {
			return err
		}
		doc.ID = current.ID
		doc.CreatedAt = current.CreatedAt
		updated, err = tx.Update(ctx, doc)
		return err
	})
	if err != nil {
		return Document{}, err
	}
	s.record(ctx, in.ActorID, "update", updated)
	return updated, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, kind Kind, id int64, actorID int64) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "delete",
		Entity:   string(kind),
		EntityID: strconv.FormatInt(id, 10),
	})
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, doc Document) {
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   string(doc.Kind),
		EntityID: strconv.FormatInt(doc.ID, 10),
		Meta: map[string]any{
			"number":    doc.Number,
			"net_total": doc.Totals.NetTotal.String(),
		},
	})
}
