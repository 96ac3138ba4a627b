package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressStore persists per-(user, course) progress documents, unique on
// that pair.
type ProgressStore interface {
	Get(ctx context.Context, userID, courseID primitive.ObjectID) (*models.CourseProgress, error)
	// ApplyLessonUpdate merges a lesson entry into the (user, course)
	// document and recomputes the overall percentage in a single
	// conditional update, creating the document if absent. Two concurrent
	// calls must not produce two documents or lose either merge.
	ApplyLessonUpdate(ctx context.Context, userID, courseID, lessonID primitive.ObjectID, watched int64, completed *bool, now time.Time) (*models.CourseProgress, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CourseProgress, error)
}

// ProgressService tracks which lessons a user has watched per enrollment
// and derives the overall completion percentage.
type ProgressService struct {
	users   UserStore
	courses CourseStore
	store   ProgressStore
	now     func() time.Time
}

func NewProgressService(users UserStore, courses CourseStore, store ProgressStore) *ProgressService {
	return &ProgressService{users: users, courses: courses, store: store, now: time.Now}
}

// Enroll appends the course to the user's enrollment list. Calling it again
// for the same pair is a no-op success; the returned bool reports whether
// the reference already existed.
func (s *ProgressService) Enroll(ctx context.Context, userID, courseID primitive.ObjectID) (alreadyEnrolled bool, err error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return false, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return false, err
	}
	added, err := s.users.AddEnrolledCourse(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return !added, nil
}

// UpdateLessonProgress records what the client asserts about a lesson. The
// caller must be enrolled. watched == 0 keeps the prior value (the tracker
// takes a new watched figure only when one is provided); completed is
// applied exactly as given when non-nil, including an explicit false after
// true. The overall percentage is recomputed over the lessons touched so
// far, not the course's full lesson count.
func (s *ProgressService) UpdateLessonProgress(ctx context.Context, userID, courseID, lessonID primitive.ObjectID, watched int64, completed *bool) (*models.CourseProgress, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	for _, id := range user.EnrolledCourses {
		if id == courseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	return s.store.ApplyLessonUpdate(ctx, userID, courseID, lessonID, watched, completed, s.now())
}

// GetProgress returns the stored record, or a synthesized zero state when
// the user has not touched the course yet, never a not-found error.
func (s *ProgressService) GetProgress(ctx context.Context, userID, courseID primitive.ObjectID) (*models.CourseProgress, error) {
	progress, err := s.store.Get(ctx, userID, courseID)
	if err == ErrProgressNotFound {
		return &models.CourseProgress{
			UserID:          userID,
			CourseID:        courseID,
			Lessons:         []models.LessonProgress{},
			OverallProgress: 0,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// ListUserProgress returns every progress record for the user, most
// recently accessed first.
func (s *ProgressService) ListUserProgress(ctx context.Context, userID primitive.ObjectID) ([]models.CourseProgress, error) {
	return s.store.ListByUser(ctx, userID)
}

// mergeLessonEntry applies the tracker's merge policy to a lessons slice.
// The Mongo store encodes the same policy as a server-side pipeline; this
// form backs the in-memory store used in tests and documents the rules in
// one place.
func mergeLessonEntry(lessons []models.LessonProgress, lessonID primitive.ObjectID, watched int64, completed *bool, now time.Time) []models.LessonProgress {
	for i := range lessons {
		if lessons[i].LessonID == lessonID {
			if watched != 0 {
				lessons[i].Watched = watched
			}
			if completed != nil {
				lessons[i].Completed = *completed
			}
			lessons[i].LastWatchedAt = now
			return lessons
		}
	}
	entry := models.LessonProgress{
		LessonID:      lessonID,
		Watched:       watched,
		LastWatchedAt: now,
	}
	if completed != nil {
		entry.Completed = *completed
	}
	return append(lessons, entry)
}
