package shared

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartstock/smartstock/internal/platform/db"
	"github.com/smartstock/smartstock/internal/platform/httpx"
)

var (
	ErrNotFound   = fmt.Errorf("masterdata: %w", httpx.ErrNotFound)
	ErrDuplicate  = fmt.Errorf("masterdata: code already exists: %w", httpx.ErrDuplicate)
	ErrValidation = fmt.Errorf("masterdata: %w", httpx.ErrValidation)
	ErrInvalidID  = fmt.Errorf("masterdata: invalid id: %w", httpx.ErrValidation)
)

// TranslateError maps driver errors onto the package sentinels.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}
