package services

import (
	"context"
	"strings"
	"time"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token lifetimes
const (
	SignupTokenTTL        = 24 * time.Hour
	PasswordResetTokenTTL = 1 * time.Hour
)

// TokenStore persists verification tokens. Implementations return
// ErrTokenNotFound when no record matches.
type TokenStore interface {
	Insert(ctx context.Context, tok models.VerificationToken) error
	Find(ctx context.Context, email, token, tokenType string) (*models.VerificationToken, error)
	FindByEmailAndType(ctx context.Context, email, tokenType string) (*models.VerificationToken, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteByEmailAndType(ctx context.Context, email, tokenType string) error
	// Rotate replaces token value and expiry in a single write, preserving
	// the stored payload.
	Rotate(ctx context.Context, id primitive.ObjectID, token string, expiresAt time.Time) error
}

// TokenService owns the verification-token lifecycle: single-use,
// time-limited, at most one live token per (email, type).
type TokenService struct {
	store TokenStore
	now   func() time.Time
}

func NewTokenService(store TokenStore) *TokenService {
	return &TokenService{store: store, now: time.Now}
}

// Issue creates a fresh token for (email, type), replacing any existing one
// so at most one token is live afterwards. The caller delivers the returned
// token string out-of-band; the record itself never leaves this package.
func (s *TokenService) Issue(ctx context.Context, email, tokenType string, payload models.SignupPayload, ttl time.Duration) (string, error) {
	email = utils.NormalizeEmail(email)

	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return "", err
	}

	if err := s.store.DeleteByEmailAndType(ctx, email, tokenType); err != nil {
		return "", err
	}

	now := s.now()
	tok := models.VerificationToken{
		CreatedAt: now,
		Email:     email,
		Token:     token,
		Type:      tokenType,
		Payload:   payload,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.store.Insert(ctx, tok); err != nil {
		return "", err
	}
	return token, nil
}

// Consume looks up the token by exact (email, token, type) and deletes it.
// A missing record (wrong token, wrong email, or already consumed) is
// ErrInvalidToken. A stale record is deleted opportunistically and reported
// as ErrTokenExpired. On success the stored payload is returned and the
// token can never be used again.
func (s *TokenService) Consume(ctx context.Context, email, token, tokenType string) (models.SignupPayload, error) {
	email = utils.NormalizeEmail(email)
	token = strings.TrimSpace(token)

	tok, err := s.store.Find(ctx, email, token, tokenType)
	if err != nil {
		if err == ErrTokenNotFound {
			return models.SignupPayload{}, ErrInvalidToken
		}
		return models.SignupPayload{}, err
	}

	if tok.Expired(s.now()) {
		_ = s.store.DeleteByID(ctx, tok.ID)
		return models.SignupPayload{}, ErrTokenExpired
	}

	if err := s.store.DeleteByID(ctx, tok.ID); err != nil {
		return models.SignupPayload{}, err
	}
	return tok.Payload, nil
}

// FindPending returns the live token for (email, type), or
// ErrNoPendingVerification. An expired record is cleaned up and treated as
// absent.
func (s *TokenService) FindPending(ctx context.Context, email, tokenType string) (*models.VerificationToken, error) {
	email = utils.NormalizeEmail(email)

	tok, err := s.store.FindByEmailAndType(ctx, email, tokenType)
	if err != nil {
		if err == ErrTokenNotFound {
			return nil, ErrNoPendingVerification
		}
		return nil, err
	}
	if tok.Expired(s.now()) {
		_ = s.store.DeleteByID(ctx, tok.ID)
		return nil, ErrNoPendingVerification
	}
	return tok, nil
}

// Rotate swaps the token value and expiry of the pending (email, type)
// record in one write, keeping the original payload, and returns the new
// token string alongside the preserved payload.
func (s *TokenService) Rotate(ctx context.Context, email, tokenType string, ttl time.Duration) (string, models.SignupPayload, error) {
	tok, err := s.FindPending(ctx, email, tokenType)
	if err != nil {
		return "", models.SignupPayload{}, err
	}

	newToken, err := utils.GenerateVerificationToken()
	if err != nil {
		return "", models.SignupPayload{}, err
	}

	if err := s.store.Rotate(ctx, tok.ID, newToken, s.now().Add(ttl)); err != nil {
		return "", models.SignupPayload{}, err
	}
	return newToken, tok.Payload, nil
}

// Revoke drops any token for (email, type). Missing records are not an
// error.
func (s *TokenService) Revoke(ctx context.Context, email, tokenType string) error {
	return s.store.DeleteByEmailAndType(ctx, utils.NormalizeEmail(email), tokenType)
}
