package suppliers

import (
	"context"
	"strings"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

// All returns every supplier.
func (s *Service) All(ctx context.Context) ([]Supplier, error) {
	out, _, err := s.repo.List(ctx, shared.ListFilters{})
	return out, err
}

func (s *Service) Get(ctx context.Context, code string) (Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Supplier{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, code)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	supplier = normalise(supplier)
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, code string, supplier Supplier) (Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Supplier{}, shared.ErrInvalidID
	}
	supplier = normalise(supplier)
	if supplier.Code == "" {
		supplier.Code = code
	}
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, code, supplier)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, code)
}

func normalise(s Supplier) Supplier {
	s.Code = strings.TrimSpace(s.Code)
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Address = strings.TrimSpace(s.Address)
	s.TP1 = strings.TrimSpace(s.TP1)
	s.TP2 = strings.TrimSpace(s.TP2)
	s.Date = strings.TrimSpace(s.Date)
	return s
}
