package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
)

func TestTokenService_IssueReplacesExisting(t *testing.T) {
	store := newStubTokenStore()
	svc := NewTokenService(store)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "a@example.com", models.TokenTypeSignup, models.SignupPayload{FullName: "A"}, SignupTokenTTL)
	require.NoError(t, err)

	second, err := svc.Issue(ctx, "a@example.com", models.TokenTypeSignup, models.SignupPayload{FullName: "A"}, SignupTokenTTL)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, store.count())

	// The replaced token no longer verifies anything.
	_, err = svc.Consume(ctx, "a@example.com", first, models.TokenTypeSignup)
	assert.ErrorIs(t, err, ErrInvalidToken)

	payload, err := svc.Consume(ctx, "a@example.com", second, models.TokenTypeSignup)
	require.NoError(t, err)
	assert.Equal(t, "A", payload.FullName)
}

func TestTokenService_ConsumeIsSingleUse(t *testing.T) {
	store := newStubTokenStore()
	svc := NewTokenService(store)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "b@example.com", models.TokenTypeSignup, models.SignupPayload{FullName: "B"}, SignupTokenTTL)
	require.NoError(t, err)

	_, err = svc.Consume(ctx, "b@example.com", token, models.TokenTypeSignup)
	require.NoError(t, err)

	_, err = svc.Consume(ctx, "b@example.com", token, models.TokenTypeSignup)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_ConsumeWrongEmailOrType(t *testing.T) {
	store := newStubTokenStore()
	svc := NewTokenService(store)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "c@example.com", models.TokenTypeSignup, models.SignupPayload{}, SignupTokenTTL)
	require.NoError(t, err)

	_, err = svc.Consume(ctx, "other@example.com", token, models.TokenTypeSignup)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Consume(ctx, "c@example.com", token, models.TokenTypePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The token survives failed lookups and still works for its real owner.
	_, err = svc.Consume(ctx, "c@example.com", token, models.TokenTypeSignup)
	assert.NoError(t, err)
}

func TestTokenService_ExpiredTokenIsDeleted(t *testing.T) {
	store := newStubTokenStore()
	svc := NewTokenService(store)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "d@example.com", models.TokenTypeSignup, models.SignupPayload{}, SignupTokenTTL)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(SignupTokenTTL + time.Minute) }

	_, err = svc.Consume(ctx, "d@example.com", token, models.TokenTypeSignup)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, 0, store.count())

	// A second attempt reports invalid, not expired: the record is gone.
	_, err = svc.Consume(ctx, "d@example.com", token, models.TokenTypeSignup)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RotatePreservesPayload(t *testing.T) {
	store := newStubTokenStore()
	svc := NewTokenService(store)
	ctx := context.Background()

	payload := models.SignupPayload{FullName: "Rot", PhoneNumber: "123", Password: "hash"}
	old, err := svc.Issue(ctx, "e@example.com", models.TokenTypeSignup, payload, SignupTokenTTL)
	require.NoError(t, err)

	newToken, got, err := svc.Rotate(ctx, "e@example.com", models.TokenTypeSignup, SignupTokenTTL)
	require.NoError(t, err)
	assert.NotEqual(t, old, newToken)
	assert.Equal(t, payload, got)
	assert.Equal(t, 1, store.count())

	_, err = svc.Consume(ctx, "e@example.com", old, models.TokenTypeSignup)
	assert.ErrorIs(t, err, ErrInvalidToken)

	consumed, err := svc.Consume(ctx, "e@example.com", newToken, models.TokenTypeSignup)
	require.NoError(t, err)
	assert.Equal(t, payload, consumed)
}

func TestTokenService_RotateWithoutPending(t *testing.T) {
	svc := NewTokenService(newStubTokenStore())

	_, _, err := svc.Rotate(context.Background(), "nobody@example.com", models.TokenTypeSignup, SignupTokenTTL)
	assert.ErrorIs(t, err, ErrNoPendingVerification)
}

func TestTokenService_ConsumeTrimsWhitespace(t *testing.T) {
	store := newStubTokenStore()
	svc := NewTokenService(store)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "f@example.com", models.TokenTypeSignup, models.SignupPayload{}, SignupTokenTTL)
	require.NoError(t, err)

	_, err = svc.Consume(ctx, "F@Example.com ", "  "+token+"\n", models.TokenTypeSignup)
	assert.NoError(t, err)
}
