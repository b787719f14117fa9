package items

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

// ImageStore persists item images.
type ImageStore interface {
	Save(original string, r io.Reader) (string, error)
	Remove(publicPath string) error
}

type Service struct {
	repo   Repository
	images ImageStore
	logger *slog.Logger
}

func NewService(repo Repository, images ImageStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, images: images, logger: logger}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, filters)
}

// All returns every item.
func (s *Service) All(ctx context.Context) ([]Item, error) {
	out, _, err := s.repo.List(ctx, shared.ListFilters{})
	return out, err
}

// Search returns at most shared.SearchLimit items matching term. An empty
// term matches everything.
func (s *Service) Search(ctx context.Context, term string) ([]Item, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term), shared.SearchLimit)
}

func (s *Service) Get(ctx context.Context, code string) (Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Item{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, code)
}

// Create stores item and its optional image. The image is discarded when the
// item cannot be stored.
func (s *Service) Create(ctx context.Context, item Item, image *Upload) (Item, error) {
	item = normalise(item)
	item.ImagePath = ""
	if err := s.validate(item); err != nil {
		return Item{}, err
	}
	if image != nil {
		path, err := s.store(image)
		if err != nil {
			return Item{}, err
		}
		item.ImagePath = path
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		s.discard(item.ImagePath)
		return Item{}, err
	}
	return created, nil
}

// Update replaces the editable fields of the item identified by code. The
// code itself is immutable; without a new image the current one is kept.
func (s *Service) Update(ctx context.Context, code string, item Item, image *Upload) (Item, error) {
	current, err := s.Get(ctx, code)
	if err != nil {
		return Item{}, err
	}
	item = normalise(item)
	item.ItemCode = current.ItemCode
	item.ImagePath = current.ImagePath
	if err := s.validate(item); err != nil {
		return Item{}, err
	}
	if image != nil {
		path, err := s.store(image)
		if err != nil {
			return Item{}, err
		}
		item.ImagePath = path
	}
	updated, err := s.repo.Update(ctx, current.ItemCode, item)
	if err != nil {
		if image != nil {
			s.discard(item.ImagePath)
		}
		return Item{}, err
	}
	if image != nil {
		s.discard(current.ImagePath)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.ErrInvalidID
	}
	deleted, err := s.repo.Delete(ctx, code)
	if err != nil {
		return err
	}
	s.discard(deleted.ImagePath)
	return nil
}

func (s *Service) store(image *Upload) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image uploads are disabled", shared.ErrValidation)
	}
	return s.images.Save(image.Filename, image.Body)
}

func (s *Service) discard(path string) {
	if path == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(path); err != nil {
		s.logger.Warn("remove item image", slog.String("path", path), slog.Any("error", err))
	}
}

func normalise(it Item) Item {
	it.ItemCode = strings.TrimSpace(it.ItemCode)
	it.Category = strings.TrimSpace(it.Category)
	it.UnitPrice = strings.TrimSpace(it.UnitPrice)
	it.Unit = strings.TrimSpace(it.Unit)
	it.RackNumber = strings.TrimSpace(it.RackNumber)
	it.Supplier = strings.TrimSpace(it.Supplier)
	it.ReOrder = strings.TrimSpace(it.ReOrder)
	it.Description = strings.TrimSpace(it.Description)
	return it
}
