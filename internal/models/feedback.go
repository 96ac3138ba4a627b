package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a course review; one per (user, course) pair.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`

	Rating   int    `bson:"rating" json:"rating"` // 1..5
	Feedback string `bson:"feedback" json:"feedback"`
	FullName string `bson:"full_name" json:"full_name"`

	FileURL      string `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FilePublicID string `bson:"file_public_id,omitempty" json:"file_public_id,omitempty"`

	RememberTop    bool `bson:"remember_top" json:"remember_top"`
	RememberBottom bool `bson:"remember_bottom" json:"remember_bottom"`
}
