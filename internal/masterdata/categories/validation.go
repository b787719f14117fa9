package categories

import "github.com/smartstock/smartstock/internal/masterdata/shared"

func (s *Service) validate(c Category) error {
	return shared.Validate(c)
}
