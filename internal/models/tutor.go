package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tutor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string               `bson:"name" json:"name"`
	Email       string               `bson:"email" json:"email"` // unique, normalized
	Speciality  string               `bson:"speciality" json:"speciality"`
	PhoneNumber string               `bson:"phone_number" json:"phone_number"`
	Courses     []primitive.ObjectID `bson:"courses,omitempty" json:"courses"`
}
