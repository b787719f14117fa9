package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps one-time passwords and reset grants in Redis with expiry.
type OTPStore struct {
	client   *redis.Client
	ttl      time.Duration
	resetTTL time.Duration
}

// NewOTPStore constructs an OTPStore.
func NewOTPStore(client *redis.Client, ttl, resetTTL time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl, resetTTL: resetTTL}
}

// Issue generates a four digit code for email, replacing any previous one.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("auth: generate otp: %w", err)
	}
	code := fmt.Sprintf("%04d", n.Int64()+1000)
	if err := s.client.Set(ctx, otpKey(email), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code for email and opens a reset window on success.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, otpKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidOTP
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidOTP
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, otpKey(email))
	pipe.Set(ctx, resetKey(email), "1", s.resetTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// ConsumeReset removes the reset grant of email, reporting whether it existed.
func (s *OTPStore) ConsumeReset(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Del(ctx, resetKey(email)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func otpKey(email string) string {
	return "smartstock:otp:" + normaliseEmail(email)
}

func resetKey(email string) string {
	return "smartstock:otp-reset:" + normaliseEmail(email)
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
