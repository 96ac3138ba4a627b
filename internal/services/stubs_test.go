package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
)

// In-memory stores backing the service tests. They enforce the same
// uniqueness rules as the MongoDB indexes.

type stubTokenStore struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]models.VerificationToken
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: make(map[primitive.ObjectID]models.VerificationToken)}
}

func (s *stubTokenStore) Insert(_ context.Context, tok models.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.ID.IsZero() {
		tok.ID = primitive.NewObjectID()
	}
	s.tokens[tok.ID] = tok
	return nil
}

func (s *stubTokenStore) Find(_ context.Context, email, token, tokenType string) (*models.VerificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range s.tokens {
		if tok.Email == email && tok.Token == token && tok.Type == tokenType {
			out := tok
			return &out, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (s *stubTokenStore) FindByEmailAndType(_ context.Context, email, tokenType string) (*models.VerificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range s.tokens {
		if tok.Email == email && tok.Type == tokenType {
			out := tok
			return &out, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (s *stubTokenStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, id)
	return nil
}

func (s *stubTokenStore) DeleteByEmailAndType(_ context.Context, email, tokenType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tok := range s.tokens {
		if tok.Email == email && tok.Type == tokenType {
			delete(s.tokens, id)
		}
	}
	return nil
}

func (s *stubTokenStore) Rotate(_ context.Context, id primitive.ObjectID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[id]
	if !ok {
		return ErrTokenNotFound
	}
	tok.Token = token
	tok.ExpiresAt = expiresAt
	s.tokens[id] = tok
	return nil
}

func (s *stubTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type stubUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *stubUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, ErrUserNotFound
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *stubUserStore) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email || (phone != "" && u.PhoneNumber == phone) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *stubUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubUserStore) SetEmailVerified(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsEmailVerified = true
	return nil
}

func (s *stubUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (s *stubUserStore) AddEnrolledCourse(_ context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return false, ErrUserNotFound
	}
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return false, nil
		}
	}
	u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	return true, nil
}

type stubCourseStore struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]*models.Course
}

func newStubCourseStore() *stubCourseStore {
	return &stubCourseStore{courses: make(map[primitive.ObjectID]*models.Course)}
}

func (s *stubCourseStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.courses[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, ErrCourseNotFound
}

func (s *stubCourseStore) add(c *models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.courses[c.ID] = c
}

type progressKey struct {
	userID   primitive.ObjectID
	courseID primitive.ObjectID
}

type stubProgressStore struct {
	mu      sync.Mutex
	records map[progressKey]*models.CourseProgress
}

func newStubProgressStore() *stubProgressStore {
	return &stubProgressStore{records: make(map[progressKey]*models.CourseProgress)}
}

func (s *stubProgressStore) Get(_ context.Context, userID, courseID primitive.ObjectID) (*models.CourseProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.records[progressKey{userID, courseID}]; ok {
		out := *p
		out.Lessons = append([]models.LessonProgress(nil), p.Lessons...)
		return &out, nil
	}
	return nil, ErrProgressNotFound
}

func (s *stubProgressStore) ApplyLessonUpdate(_ context.Context, userID, courseID, lessonID primitive.ObjectID, watched int64, completed *bool, now time.Time) (*models.CourseProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{userID, courseID}
	p, ok := s.records[key]
	if !ok {
		p = &models.CourseProgress{
			ID:        primitive.NewObjectID(),
			CreatedAt: now,
			UserID:    userID,
			CourseID:  courseID,
		}
		s.records[key] = p
	}
	p.Lessons = mergeLessonEntry(p.Lessons, lessonID, watched, completed, now)
	p.OverallProgress = models.OverallFromLessons(p.Lessons)
	p.LastAccessedAt = now
	p.UpdatedAt = now

	out := *p
	out.Lessons = append([]models.LessonProgress(nil), p.Lessons...)
	return &out, nil
}

func (s *stubProgressStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.CourseProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CourseProgress
	for key, p := range s.records {
		if key.userID == userID {
			copied := *p
			copied.Lessons = append([]models.LessonProgress(nil), p.Lessons...)
			out = append(out, copied)
		}
	}
	return out, nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	to      string
	subject string
	html    string
	text    string
}

func (m *stubMailer) Send(to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: htmlBody, text: textBody})
	return nil
}

func (m *stubMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *stubMailer) lastSent() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}
