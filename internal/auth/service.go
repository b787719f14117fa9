package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartstock/smartstock/internal/rbac"
	"github.com/smartstock/smartstock/internal/shared"
	"github.com/smartstock/smartstock/jobs"
)

// Mailer queues outgoing email. jobs.Client satisfies it.
type Mailer interface {
	QueueEmail(ctx context.Context, payload jobs.SendEmailPayload) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	otps   *OTPStore
	mailer Mailer
	cost   int
}

// NewService constructs a new Service.
func NewService(repo Repository, otps *OTPStore, mailer Mailer) *Service {
	return &Service{repo: repo, otps: otps, mailer: mailer, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost, mainly for tests.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// Account returns the account with id.
func (s *Service) Account(ctx context.Context, id int64) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateAccount registers a new account with a hashed password.
func (s *Service) CreateAccount(ctx context.Context, in NewAccountInput) (*Account, error) {
	role := rbac.NormalizeRole(in.Role)
	if role == "" {
		role = rbac.RoleUser
	}
	if !rbac.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	email := strings.TrimSpace(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Create(ctx, Account{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		Department:   strings.TrimSpace(in.Department),
		Role:         role,
		PasswordHash: string(hash),
	})
}

// SendOTP issues a one-time password for a known email and queues it for delivery.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if s.mailer == nil {
		return errNoMailer
	}
	code, err := s.otps.Issue(ctx, account.Email)
	if err != nil {
		return err
	}
	return s.mailer.QueueEmail(ctx, jobs.SendEmailPayload{
		To:      account.Email,
		Subject: "SmartStock OTP Verification",
		Body:    "Your OTP code is: " + code,
	})
}

// VerifyOTP checks the code and allows one password reset for email.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	return s.otps.Verify(ctx, email, code)
}

// ResetPassword stores a new password after a successful VerifyOTP.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	ok, err := s.otps.ConsumeReset(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetNotAllowed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, account.ID, string(hash))
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, accountID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, accountID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
