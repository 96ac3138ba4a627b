package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course statuses
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
)

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelExpert       = "Expert"
)

type Lesson struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LessonName       string             `bson:"lesson_name" json:"lesson_name"`
	Skills           []string           `bson:"skills,omitempty" json:"skills"`
	LearningOutcomes string             `bson:"learning_outcomes" json:"learning_outcomes"`
	VideoURL         string             `bson:"video_url,omitempty" json:"video_url,omitempty"`
	VideoPublicID    string             `bson:"video_public_id,omitempty" json:"video_public_id,omitempty"`
	Duration         int64              `bson:"duration" json:"duration"` // seconds
	Order            int                `bson:"order" json:"order"`
}

type FAQ struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

type Course struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title              string   `bson:"title" json:"title"`
	Category           string   `bson:"category" json:"category"`
	Instructor         string   `bson:"instructor" json:"instructor"`
	Price              string   `bson:"price" json:"price"`
	DiscountPercentage float64  `bson:"discount_percentage" json:"discount_percentage"`
	TaxPercentage      float64  `bson:"tax_percentage" json:"tax_percentage"`
	CourseLevel        string   `bson:"course_level,omitempty" json:"course_level,omitempty"`
	Skills             []string `bson:"skills,omitempty" json:"skills"`
	Description        string   `bson:"description" json:"description"`
	FAQs               []FAQ    `bson:"faqs,omitempty" json:"faqs"`
	Lessons            []Lesson `bson:"lessons,omitempty" json:"lessons"`
	Keywords           []string `bson:"keywords,omitempty" json:"keywords"`

	ThumbnailURL      string `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	ThumbnailPublicID string `bson:"thumbnail_public_id,omitempty" json:"thumbnail_public_id,omitempty"`

	Status    string             `bson:"status" json:"status"`
	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
