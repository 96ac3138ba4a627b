package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProgressStore struct {
	db *mongo.Database
}

func NewMongoProgressStore(db *mongo.Database) ProgressStore {
	return &mongoProgressStore{db: db}
}

func (s *mongoProgressStore) collection() *mongo.Collection {
	return s.db.Collection(database.ProgressCollection)
}

func (s *mongoProgressStore) Get(ctx context.Context, userID, courseID primitive.ObjectID) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := s.collection().FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&progress)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ApplyLessonUpdate runs the whole merge as one pipeline update with
// upsert, so concurrent writers never lose an update to a find-then-save
// race: the lesson entry is matched/merged/appended and the overall
// percentage recomputed inside a single document write. The unique
// (user_id, course_id) index makes concurrent first writes collide instead
// of duplicating; the loser retries once against the now-existing document.
func (s *mongoProgressStore) ApplyLessonUpdate(ctx context.Context, userID, courseID, lessonID primitive.ObjectID, watched int64, completed *bool, now time.Time) (*models.CourseProgress, error) {
	changes := bson.M{"last_watched_at": now}
	if watched != 0 {
		changes["watched"] = watched
	}
	if completed != nil {
		changes["completed"] = *completed
	}

	newEntry := bson.M{
		"lesson_id":       lessonID,
		"watched":         watched,
		"completed":       completed != nil && *completed,
		"last_watched_at": now,
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"created_at": bson.M{"$ifNull": bson.A{"$created_at", now}},
			"lessons":    bson.M{"$ifNull": bson.A{"$lessons", bson.A{}}},
		}},
		bson.M{"$set": bson.M{
			"lessons": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{lessonID, "$lessons.lesson_id"}},
				bson.M{"$map": bson.M{
					"input": "$lessons",
					"as":    "l",
					"in": bson.M{"$cond": bson.A{
						bson.M{"$eq": bson.A{"$$l.lesson_id", lessonID}},
						bson.M{"$mergeObjects": bson.A{"$$l", changes}},
						"$$l",
					}},
				}},
				bson.M{"$concatArrays": bson.A{"$lessons", bson.A{newEntry}}},
			}},
		}},
		bson.M{"$set": bson.M{
			"overall_progress": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{bson.M{"$size": "$lessons"}, 0}},
				bson.M{"$round": bson.A{
					bson.M{"$multiply": bson.A{
						bson.M{"$divide": bson.A{
							bson.M{"$size": bson.M{"$filter": bson.M{
								"input": "$lessons",
								"as":    "l",
								"cond":  "$$l.completed",
							}}},
							bson.M{"$size": "$lessons"},
						}},
						100,
					}},
					0,
				}},
				0,
			}},
			"last_accessed_at": now,
			"updated_at":       now,
		}},
	}

	filter := bson.M{"user_id": userID, "course_id": courseID}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var progress models.CourseProgress
	err := s.collection().FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&progress)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the first-write race; the document exists now, so retry the
		// merge without creating anything.
		err = s.collection().FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&progress)
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *mongoProgressStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CourseProgress, error) {
	findOpts := options.Find().SetSort(bson.M{"last_accessed_at": -1})
	cursor, err := s.collection().Find(ctx, bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	progressList := make([]models.CourseProgress, 0)
	if err := cursor.All(ctx, &progressList); err != nil {
		return nil, err
	}
	return progressList, nil
}
