package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix         = "otp:"
	otpAttemptsKeyPrefix = "otp_attempts:"

	OTPTTL         = 10 * time.Minute
	OTPMaxAttempts = 5
)

// OTPService stores one-time codes in Redis so they survive restarts and
// are shared across instances.
type OTPService struct {
	rdb *redis.Client
}

func NewOTPService(rdb *redis.Client) *OTPService {
	return &OTPService{rdb: rdb}
}

// Generate creates a 6-digit code for the email and stores it with a
// 10-minute TTL. A previous unconsumed code for the same email is
// replaced and its attempt counter reset.
func (s *OTPService) Generate(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, otpKeyPrefix+email, code, OTPTTL)
	pipe.Del(ctx, otpAttemptsKeyPrefix+email)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}
	return code, nil
}

// Verify checks the code for the email. Each mismatch counts against a
// limit of 5 attempts; once exceeded the code is discarded. A successful
// match consumes the code.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	stored, err := s.rdb.Get(ctx, otpKeyPrefix+email).Result()
	if err == redis.Nil {
		return ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read otp: %w", err)
	}

	if stored != code {
		attempts, err := s.rdb.Incr(ctx, otpAttemptsKeyPrefix+email).Result()
		if err != nil {
			return fmt.Errorf("failed to count otp attempt: %w", err)
		}
		s.rdb.Expire(ctx, otpAttemptsKeyPrefix+email, OTPTTL)
		if attempts >= OTPMaxAttempts {
			s.rdb.Del(ctx, otpKeyPrefix+email, otpAttemptsKeyPrefix+email)
			return ErrOTPTooManyAttempts
		}
		return ErrOTPMismatch
	}

	s.rdb.Del(ctx, otpKeyPrefix+email, otpAttemptsKeyPrefix+email)
	return nil
}
