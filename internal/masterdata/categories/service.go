package categories

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	category = normalise(category)
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, code string, category Category) (Category, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Category{}, shared.ErrInvalidID
	}
	category = normalise(category)
	if category.Code == "" {
		category.Code = code
	}
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	return s.repo.Update(ctx, code, category)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, code)
}

func normalise(c Category) Category {
	c.Code = strings.TrimSpace(c.Code)
	c.Description = strings.TrimSpace(c.Description)
	c.Image = strings.TrimSpace(c.Image)
	return c
}
