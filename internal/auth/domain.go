package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/smartstock/smartstock/internal/platform/httpx"
)

// Account is a manager, admin or user able to sign in.
type Account struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewAccountInput carries the fields of a new account.
type NewAccountInput struct {
	FirstName  string
	LastName   string
	Username   string
	Email      string
	Department string
	Role       string
	Password   string
}

var (
	// ErrNotFound indicates the account does not exist.
	ErrNotFound = fmt.Errorf("auth: account %w", httpx.ErrNotFound)
	// ErrDuplicateAccount indicates the email or username is taken.
	ErrDuplicateAccount = fmt.Errorf("auth: account %w", httpx.ErrDuplicate)
	// ErrInvalidOTP indicates a wrong or expired one-time password.
	ErrInvalidOTP = fmt.Errorf("auth: invalid otp: %w", httpx.ErrValidation)
	// ErrResetNotAllowed indicates a password reset without a verified OTP.
	ErrResetNotAllowed = fmt.Errorf("auth: reset not verified: %w", httpx.ErrForbidden)
	// ErrInvalidRole indicates an unknown role.
	ErrInvalidRole = fmt.Errorf("auth: invalid role: %w", httpx.ErrValidation)
	// ErrWeakPassword indicates a password below the minimum length.
	ErrWeakPassword = fmt.Errorf("auth: password too short: %w", httpx.ErrValidation)
	errNoMailer     = errors.New("auth: otp mailer not configured")
)

// MinPasswordLength is enforced on new and reset passwords.
const MinPasswordLength = 8
