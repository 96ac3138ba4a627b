package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NormalizeEmail lowercases and trims an email address so the same mailbox
// always maps to the same user and token records.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateVerificationToken returns a 64-hex-char opaque token (256 bits of
// entropy), making collisions and guessing negligible.
func GenerateVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
