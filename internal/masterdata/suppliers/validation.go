package suppliers

import (
	"fmt"
	"strings"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

func (s *Service) validate(sup Supplier) error {
	if err := shared.Validate(sup); err != nil {
		return err
	}
	for _, tp := range []string{sup.TP1, sup.TP2} {
		if !validPhone(tp) {
			return fmt.Errorf("%w: telephone %q", shared.ErrValidation, tp)
		}
	}
	return nil
}

// validPhone accepts an empty value, or ASCII digits with optional spaces,
// dashes and a leading plus. At least one digit is required.
func validPhone(tp string) bool {
	if tp == "" {
		return true
	}
	digits := 0
	for _, r := range strings.TrimPrefix(tp, "+") {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}
