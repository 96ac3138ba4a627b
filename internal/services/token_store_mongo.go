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

// mongoTokenStore keeps verification tokens in the verificationtokens
// collection; a TTL index on expires_at reaps stale rows server-side.
type mongoTokenStore struct {
	db *mongo.Database
}

func NewMongoTokenStore(db *mongo.Database) TokenStore {
	return &mongoTokenStore{db: db}
}

func (s *mongoTokenStore) collection() *mongo.Collection {
	return s.db.Collection(database.TokensCollection)
}

func (s *mongoTokenStore) Insert(ctx context.Context, tok models.VerificationToken) error {
	_, err := s.collection().InsertOne(ctx, tok)
	return err
}

func (s *mongoTokenStore) Find(ctx context.Context, email, token, tokenType string) (*models.VerificationToken, error) {
	var tok models.VerificationToken
	err := s.collection().FindOne(ctx, bson.M{
		"email": email,
		"token": token,
		"type":  tokenType,
	}).Decode(&tok)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s *mongoTokenStore) FindByEmailAndType(ctx context.Context, email, tokenType string) (*models.VerificationToken, error) {
	var tok models.VerificationToken
	err := s.collection().FindOne(ctx, bson.M{
		"email": email,
		"type":  tokenType,
	}).Decode(&tok)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s *mongoTokenStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *mongoTokenStore) DeleteByEmailAndType(ctx context.Context, email, tokenType string) error {
	_, err := s.collection().DeleteMany(ctx, bson.M{"email": email, "type": tokenType})
	return err
}

func (s *mongoTokenStore) Rotate(ctx context.Context, id primitive.ObjectID, token string, expiresAt time.Time) error {
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"token":      token,
			"expires_at": expiresAt,
			"created_at": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTokenNotFound
	}
	return nil
}
