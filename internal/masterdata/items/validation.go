package items

import "github.com/smartstock/smartstock/internal/masterdata/shared"

func (s *Service) validate(it Item) error {
	return shared.Validate(it)
}
