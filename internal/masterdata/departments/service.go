package departments

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Department, int, error) {
	return s.repo.List(ctx, filters)
}

// Count returns the number of departments.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Create(ctx context.Context, dept Department) (Department, error) {
	dept = normalise(dept)
	if err := shared.Validate(dept); err != nil {
		return Department{}, err
	}
	return s.repo.Create(ctx, dept)
}

func (s *Service) Update(ctx context.Context, id int64, dept Department) (Department, error) {
	if id <= 0 {
		return Department{}, shared.ErrInvalidID
	}
	dept = normalise(dept)
	if err := shared.Validate(dept); err != nil {
		return Department{}, err
	}
	return s.repo.Update(ctx, id, dept)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

func normalise(d Department) Department {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.TrimSpace(d.Code)
	d.Description = strings.TrimSpace(d.Description)
	return d
}
