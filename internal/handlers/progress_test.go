package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

// Hand-rolled stores so the HTTP layer can be exercised without MongoDB.

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, services.ErrUserNotFound
}

func (s *fakeUserStore) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, services.ErrUserNotFound
}

func (s *fakeUserStore) FindByEmailOrPhone(context.Context, string, string) (*models.User, error) {
	return nil, services.ErrUserNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) SetEmailVerified(context.Context, primitive.ObjectID) error { return nil }

func (s *fakeUserStore) UpdatePassword(context.Context, primitive.ObjectID, string) error {
	return nil
}

func (s *fakeUserStore) AddEnrolledCourse(_ context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	u, ok := s.users[userID]
	if !ok {
		return false, services.ErrUserNotFound
	}
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return false, nil
		}
	}
	u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	return true, nil
}

type fakeCourseStore struct {
	courses map[primitive.ObjectID]*models.Course
}

func (s *fakeCourseStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	if c, ok := s.courses[id]; ok {
		return c, nil
	}
	return nil, services.ErrCourseNotFound
}

type fakeProgressStore struct {
	records map[string]*models.CourseProgress
}

func progressStoreKey(userID, courseID primitive.ObjectID) string {
	return userID.Hex() + ":" + courseID.Hex()
}

func (s *fakeProgressStore) Get(_ context.Context, userID, courseID primitive.ObjectID) (*models.CourseProgress, error) {
	if p, ok := s.records[progressStoreKey(userID, courseID)]; ok {
		return p, nil
	}
	return nil, services.ErrProgressNotFound
}

func (s *fakeProgressStore) ApplyLessonUpdate(_ context.Context, userID, courseID, lessonID primitive.ObjectID, watched int64, completed *bool, now time.Time) (*models.CourseProgress, error) {
	key := progressStoreKey(userID, courseID)
	p, ok := s.records[key]
	if !ok {
		p = &models.CourseProgress{ID: primitive.NewObjectID(), UserID: userID, CourseID: courseID, CreatedAt: now}
		s.records[key] = p
	}
	found := false
	for i := range p.Lessons {
		if p.Lessons[i].LessonID == lessonID {
			if watched != 0 {
				p.Lessons[i].Watched = watched
			}
			if completed != nil {
				p.Lessons[i].Completed = *completed
			}
			p.Lessons[i].LastWatchedAt = now
			found = true
			break
		}
	}
	if !found {
		entry := models.LessonProgress{LessonID: lessonID, Watched: watched, LastWatchedAt: now}
		if completed != nil {
			entry.Completed = *completed
		}
		p.Lessons = append(p.Lessons, entry)
	}
	p.OverallProgress = models.OverallFromLessons(p.Lessons)
	p.LastAccessedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (s *fakeProgressStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.CourseProgress, error) {
	var out []models.CourseProgress
	for _, p := range s.records {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func setupProgressTest(t *testing.T) (*chi.Mux, primitive.ObjectID, *models.Course) {
	t.Helper()

	users := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	courses := &fakeCourseStore{courses: make(map[primitive.ObjectID]*models.Course)}
	store := &fakeProgressStore{records: make(map[string]*models.CourseProgress)}

	course := &models.Course{
		ID:    primitive.NewObjectID(),
		Title: "HTTP Testing",
		Lessons: []models.Lesson{
			{ID: primitive.NewObjectID(), LessonName: "L1"},
			{ID: primitive.NewObjectID(), LessonName: "L2"},
		},
	}
	courses.courses[course.ID] = course

	user := &models.User{
		ID:              primitive.NewObjectID(),
		Email:           "h@example.com",
		Status:          models.StatusActive,
		EnrolledCourses: []primitive.ObjectID{course.ID},
	}
	users.users[user.ID] = user

	services.Progress = services.NewProgressService(users, courses, store)

	r := chi.NewRouter()
	r.Post("/api/progress/update", UpdateProgress)
	r.Get("/api/progress/{courseId}", GetProgress)
	r.Get("/api/progress/user/{userId}", GetUserProgress)
	return r, user.ID, course
}

func TestUpdateProgressEndpoint(t *testing.T) {
	r, userID, course := setupProgressTest(t)

	body := fmt.Sprintf(`{"userId":%q,"courseId":%q,"lessonId":%q,"watched":120,"completed":true}`,
		userID.Hex(), course.ID.Hex(), course.Lessons[0].ID.Hex())
	req := httptest.NewRequest(http.MethodPost, "/api/progress/update", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Message string                `json:"message"`
		Data    models.CourseProgress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 100, resp.Data.OverallProgress)
	require.Len(t, resp.Data.Lessons, 1)
	assert.Equal(t, int64(120), resp.Data.Lessons[0].Watched)
}

func TestUpdateProgressValidation(t *testing.T) {
	r, userID, course := setupProgressTest(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing lesson", fmt.Sprintf(`{"userId":%q,"courseId":%q}`, userID.Hex(), course.ID.Hex())},
		{"bad id", fmt.Sprintf(`{"userId":"nope","courseId":%q,"lessonId":%q}`, course.ID.Hex(), course.Lessons[0].ID.Hex())},
		{"negative watched", fmt.Sprintf(`{"userId":%q,"courseId":%q,"lessonId":%q,"watched":-5}`, userID.Hex(), course.ID.Hex(), course.Lessons[0].ID.Hex())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/progress/update", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateProgressNotEnrolled(t *testing.T) {
	r, userID, course := setupProgressTest(t)

	body := fmt.Sprintf(`{"userId":%q,"courseId":%q,"lessonId":%q,"watched":10}`,
		userID.Hex(), primitive.NewObjectID().Hex(), course.Lessons[0].ID.Hex())
	req := httptest.NewRequest(http.MethodPost, "/api/progress/update", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetProgressZeroState(t *testing.T) {
	r, userID, course := setupProgressTest(t)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/progress/%s?userId=%s", course.ID.Hex(), userID.Hex()), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OverallProgress int                     `json:"overall_progress"`
			Lessons         []models.LessonProgress `json:"lessons"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Data.OverallProgress)
	assert.NotNil(t, resp.Data.Lessons)
	assert.Empty(t, resp.Data.Lessons)
}

func TestGetUserProgressEndpoint(t *testing.T) {
	r, userID, course := setupProgressTest(t)

	body := fmt.Sprintf(`{"userId":%q,"courseId":%q,"lessonId":%q,"watched":60}`,
		userID.Hex(), course.ID.Hex(), course.Lessons[1].ID.Hex())
	req := httptest.NewRequest(http.MethodPost, "/api/progress/update", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/progress/user/"+userID.Hex(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.CourseProgress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, course.ID, resp.Data[0].CourseID)
}
