package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func newProgressFixture(t *testing.T) (*ProgressService, *stubUserStore, primitive.ObjectID, *models.Course) {
	t.Helper()
	users := newStubUserStore()
	courses := newStubCourseStore()
	store := newStubProgressStore()
	svc := NewProgressService(users, courses, store)

	user := &models.User{Email: "student@example.com", Status: models.StatusActive}
	require.NoError(t, users.Create(context.Background(), user))

	course := &models.Course{
		Title: "Go Fundamentals",
		Lessons: []models.Lesson{
			{ID: primitive.NewObjectID(), LessonName: "L1", Order: 1},
			{ID: primitive.NewObjectID(), LessonName: "L2", Order: 2},
		},
	}
	courses.add(course)

	return svc, users, user.ID, course
}

func TestEnrollIsIdempotent(t *testing.T) {
	svc, users, userID, course := newProgressFixture(t)
	ctx := context.Background()

	already, err := svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.True(t, already)

	user, err := users.FindByID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, user.EnrolledCourses, 1)
}

func TestEnrollUnknownUserOrCourse(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, primitive.NewObjectID(), course.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Enroll(ctx, userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUpdateProgressRequiresEnrollment(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateLessonProgress(ctx, userID, course.ID, course.Lessons[0].ID, 10, nil)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

// A course has lessons L1 and L2. Completing only L1 reports 100 percent:
// the denominator is the set of lessons touched so far, not the course's
// lesson count.
func TestOverallProgressOverTouchedLessons(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	progress, err := svc.UpdateLessonProgress(ctx, userID, course.ID, course.Lessons[0].ID, 300, boolPtr(true))
	require.NoError(t, err)
	assert.Equal(t, 100, progress.OverallProgress)
	require.Len(t, progress.Lessons, 1)
	assert.Equal(t, int64(300), progress.Lessons[0].Watched)
	assert.True(t, progress.Lessons[0].Completed)

	// Touching L2 without completing it drops the figure to 50.
	progress, err = svc.UpdateLessonProgress(ctx, userID, course.ID, course.Lessons[1].ID, 60, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.OverallProgress)
	assert.Len(t, progress.Lessons, 2)

	// Completing L2 brings it back to 100.
	progress, err = svc.UpdateLessonProgress(ctx, userID, course.ID, course.Lessons[1].ID, 0, boolPtr(true))
	require.NoError(t, err)
	assert.Equal(t, 100, progress.OverallProgress)
}

func TestWatchedZeroKeepsPriorValue(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()
	lessonID := course.Lessons[0].ID

	_, err := svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	_, err = svc.UpdateLessonProgress(ctx, userID, course.ID, lessonID, 240, nil)
	require.NoError(t, err)

	// Completion-only update: watched 0 must not clobber the 240.
	progress, err := svc.UpdateLessonProgress(ctx, userID, course.ID, lessonID, 0, boolPtr(true))
	require.NoError(t, err)
	require.Len(t, progress.Lessons, 1)
	assert.Equal(t, int64(240), progress.Lessons[0].Watched)
	assert.True(t, progress.Lessons[0].Completed)
}

func TestExplicitCompletedFalseIsApplied(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()
	lessonID := course.Lessons[0].ID

	_, err := svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	_, err = svc.UpdateLessonProgress(ctx, userID, course.ID, lessonID, 100, boolPtr(true))
	require.NoError(t, err)

	// Un-completing is allowed; omitting the field keeps the prior value.
	progress, err := svc.UpdateLessonProgress(ctx, userID, course.ID, lessonID, 150, boolPtr(false))
	require.NoError(t, err)
	assert.False(t, progress.Lessons[0].Completed)
	assert.Equal(t, 0, progress.OverallProgress)

	progress, err = svc.UpdateLessonProgress(ctx, userID, course.ID, lessonID, 200, nil)
	require.NoError(t, err)
	assert.False(t, progress.Lessons[0].Completed)
	assert.Equal(t, int64(200), progress.Lessons[0].Watched)
}

func TestGetProgressSynthesizesZeroState(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	progress, err := svc.GetProgress(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, progress.UserID)
	assert.Equal(t, course.ID, progress.CourseID)
	assert.Equal(t, 0, progress.OverallProgress)
	assert.NotNil(t, progress.Lessons)
	assert.Empty(t, progress.Lessons)
}

func TestConcurrentUpdatesToDifferentLessons(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, lesson := range course.Lessons {
		wg.Add(1)
		go func(lessonID primitive.ObjectID) {
			defer wg.Done()
			_, uerr := svc.UpdateLessonProgress(ctx, userID, course.ID, lessonID, 30, boolPtr(true))
			assert.NoError(t, uerr)
		}(lesson.ID)
	}
	wg.Wait()

	progress, err := svc.GetProgress(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.Len(t, progress.Lessons, 2)
	assert.Equal(t, 100, progress.OverallProgress)
}

func TestListUserProgress(t *testing.T) {
	svc, _, userID, course := newProgressFixture(t)
	ctx := context.Background()

	list, err := svc.ListUserProgress(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)
	_, err = svc.UpdateLessonProgress(ctx, userID, course.ID, course.Lessons[0].ID, 15, nil)
	require.NoError(t, err)

	list, err = svc.ListUserProgress(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, course.ID, list[0].CourseID)
}

func TestOverallFromLessonsRounding(t *testing.T) {
	mk := func(completed ...bool) []models.LessonProgress {
		out := make([]models.LessonProgress, len(completed))
		for i, c := range completed {
			out[i] = models.LessonProgress{LessonID: primitive.NewObjectID(), Completed: c}
		}
		return out
	}

	assert.Equal(t, 0, models.OverallFromLessons(nil))
	assert.Equal(t, 100, models.OverallFromLessons(mk(true)))
	assert.Equal(t, 33, models.OverallFromLessons(mk(true, false, false)))
	assert.Equal(t, 67, models.OverallFromLessons(mk(true, true, false)))
	assert.Equal(t, 50, models.OverallFromLessons(mk(true, false)))
}
