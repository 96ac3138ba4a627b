package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore persists accounts. Implementations return ErrUserNotFound for
// missing records and ErrEmailTaken when an insert trips the unique email
// index.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetEmailVerified(ctx context.Context, id primitive.ObjectID) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	// AddEnrolledCourse appends courseID to the user's enrollment list if
	// absent ($addToSet semantics). Returns true when the reference was
	// newly added.
	AddEnrolledCourse(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
}

type mongoUserStore struct {
	db *mongo.Database
}

func NewMongoUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{db: db}
}

func (s *mongoUserStore) collection() *mongo.Collection {
	return s.db.Collection(database.UsersCollection)
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	var user models.User
	err := s.collection().FindOne(ctx, bson.M{
		"$or": []bson.M{{"email": email}, {"phone_number": phone}},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.collection().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *mongoUserStore) SetEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_email_verified": true, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *mongoUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": passwordHash, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *mongoUserStore) AddEnrolledCourse(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	// Only the $addToSet, so ModifiedCount distinguishes a fresh enrollment
	// from the idempotent no-op.
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"enrolled_courses": courseID},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrUserNotFound
	}
	return res.ModifiedCount > 0, nil
}
