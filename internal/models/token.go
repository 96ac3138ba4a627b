package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification token types
const (
	TokenTypeSignup        = "signup"
	TokenTypePasswordReset = "password-reset"
	TokenTypeEmailChange   = "email-change"
)

// SignupPayload is the pending account data carried by a signup token
// until the email is verified.
type SignupPayload struct {
	FullName    string `bson:"full_name" json:"full_name"`
	PhoneNumber string `bson:"phone_number" json:"phone_number"`
	Password    string `bson:"password" json:"-"` // already hashed
}

// VerificationToken is a single-use, time-limited credential proving
// control of an email address. At most one live token exists per
// (email, type); the expiry index deletes stale rows opportunistically.
type VerificationToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Email     string        `bson:"email" json:"email"`
	Token     string        `bson:"token" json:"-"`
	Type      string        `bson:"type" json:"type"`
	Payload   SignupPayload `bson:"payload,omitempty" json:"-"`
	ExpiresAt time.Time     `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the token is past its expiry at the given time.
// Comparisons use absolute wall-clock time; no skew tolerance is applied.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
