package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/pkg/utils"
)

type TutorRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Speciality  string   `json:"speciality"`
	PhoneNumber string   `json:"phoneNumber"`
	Courses     []string `json:"courses"`
}

func parseCourseIDs(hexes []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// GetTutors lists all tutors.
func GetTutors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.DB.Collection(database.TutorsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	tutors := []models.Tutor{}
	if err := cursor.All(ctx, &tutors); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Tutors fetched successfully", tutors)
}

// CreateTutor adds a tutor. Admin only.
func CreateTutor(w http.ResponseWriter, r *http.Request) {
	var req TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Name and a valid email are required")
		return
	}
	courseIDs, ok := parseCourseIDs(req.Courses)
	if !ok {
		respondError(w, http.StatusBadRequest, "courses must be valid course IDs")
		return
	}

	now := time.Now()
	tutor := models.Tutor{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        req.Name,
		Email:       utils.NormalizeEmail(req.Email),
		Speciality:  req.Speciality,
		PhoneNumber: req.PhoneNumber,
		Courses:     courseIDs,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := database.DB.Collection(database.TutorsCollection).InsertOne(ctx, tutor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusConflict, "Tutor with this email already exists")
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "Tutor created successfully", tutor)
}

// UpdateTutor replaces a tutor's details. Admin only.
func UpdateTutor(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tutor ID")
		return
	}

	var req TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Name and a valid email are required")
		return
	}
	courseIDs, ok := parseCourseIDs(req.Courses)
	if !ok {
		respondError(w, http.StatusBadRequest, "courses must be valid course IDs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res := database.DB.Collection(database.TutorsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":         req.Name,
			"email":        utils.NormalizeEmail(req.Email),
			"speciality":   req.Speciality,
			"phone_number": req.PhoneNumber,
			"courses":      courseIDs,
			"updated_at":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var tutor models.Tutor
	if err := res.Decode(&tutor); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Tutor not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusConflict, "Tutor with this email already exists")
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Tutor updated successfully", tutor)
}

// DeleteTutor removes a tutor. Admin only.
func DeleteTutor(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tutor ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := database.DB.Collection(database.TutorsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Tutor not found")
		return
	}

	respondJSON(w, http.StatusOK, "Tutor deleted successfully", nil)
}
