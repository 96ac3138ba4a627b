package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User account statuses
const (
	StatusActive   = "active"
	StatusBlocked  = "blocked"
	StatusInactive = "inactive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	FullName    string `bson:"full_name" json:"full_name"`
	Email       string `bson:"email" json:"email"` // normalized: lowercase, trimmed
	PhoneNumber string `bson:"phone_number" json:"phone_number"`
	Password    string `bson:"password" json:"-"` // bcrypt hash, never returned

	Role            string `bson:"role" json:"role"`
	Status          string `bson:"status" json:"status"`
	IsEmailVerified bool   `bson:"is_email_verified" json:"is_email_verified"`
	IsPhoneVerified bool   `bson:"is_phone_verified" json:"is_phone_verified"`

	EnrolledCourses []primitive.ObjectID `bson:"enrolled_courses,omitempty" json:"enrolled_courses"`
}

// Public returns the fields safe to include in API responses.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":                u.ID.Hex(),
		"full_name":         u.FullName,
		"email":             u.Email,
		"phone_number":      u.PhoneNumber,
		"role":              u.Role,
		"status":            u.Status,
		"is_email_verified": u.IsEmailVerified,
		"created_at":        u.CreatedAt,
	}
}
