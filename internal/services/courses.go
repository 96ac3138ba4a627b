package services

import (
	"context"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CourseStore is the lookup surface the core services need; course CRUD
// itself lives in the handlers.
type CourseStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
}

type mongoCourseStore struct {
	db *mongo.Database
}

func NewMongoCourseStore(db *mongo.Database) CourseStore {
	return &mongoCourseStore{db: db}
}

func (s *mongoCourseStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var course models.Course
	err := s.db.Collection(database.CoursesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}
