package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, VerifyPassword("s3cret-password", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
	assert.False(t, VerifyPassword("s3cret-password", "not-a-hash"))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.CoM "))
	assert.Equal(t, "a@b.com", NormalizeEmail("a@b.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestGenerateVerificationToken(t *testing.T) {
	tok, err := GenerateVerificationToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	other, err := GenerateVerificationToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("652f1a2b3c4d5e6f70819202", "u@example.com", "U Ser", "user", "secret")
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "652f1a2b3c4d5e6f70819202", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(TokenDuration), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("id", "u@example.com", "U", "user", "secret-a")
	require.NoError(t, err)

	_, err = ParseToken(token, "secret-b")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.jwt", "secret")
	assert.Error(t, err)
}
