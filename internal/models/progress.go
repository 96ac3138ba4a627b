package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LessonProgress struct {
	LessonID      primitive.ObjectID `bson:"lesson_id" json:"lesson_id"`
	Watched       int64              `bson:"watched" json:"watched"` // cumulative seconds
	Completed     bool               `bson:"completed" json:"completed"`
	LastWatchedAt time.Time          `bson:"last_watched_at" json:"last_watched_at"`
}

// CourseProgress is the single record for a (user, course) pair, unique on
// that pair. OverallProgress is derived from the lessons touched so far,
// not the course's full lesson count.
type CourseProgress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	CourseID        primitive.ObjectID `bson:"course_id" json:"course_id"`
	Lessons         []LessonProgress   `bson:"lessons" json:"lessons"`
	OverallProgress int                `bson:"overall_progress" json:"overall_progress"`
	LastAccessedAt  time.Time          `bson:"last_accessed_at" json:"last_accessed_at"`
}

// OverallFromLessons computes the completion percentage over the lessons a
// progress entry exists for. An empty list is 0, not an error.
func OverallFromLessons(lessons []LessonProgress) int {
	if len(lessons) == 0 {
		return 0
	}
	completed := 0
	for _, l := range lessons {
		if l.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(lessons)) * 100))
}
