package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

// SubmitFeedback records a course review from an enrolled user. A second
// submission for the same course returns the existing review with 409.
// The optional attachment is multipart field "file"; a failed attachment
// upload does not block the review itself.
func SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	courseID, err := primitive.ObjectIDFromHex(strings.TrimSpace(r.FormValue("courseId")))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid courseId")
		return
	}
	rating, err := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))
	if err != nil || rating < 1 || rating > 5 {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	text := strings.TrimSpace(r.FormValue("feedback"))
	if text == "" {
		respondError(w, http.StatusBadRequest, "Feedback text is required")
		return
	}

	enrolled := false
	for _, id := range user.EnrolledCourses {
		if id == courseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		respondServiceError(w, services.ErrNotEnrolled)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coll := database.DB.Collection(database.FeedbacksCollection)

	var existing models.Feedback
	err = coll.FindOne(ctx, bson.M{"user_id": user.ID, "course_id": courseID}).Decode(&existing)
	if err == nil {
		respondJSON(w, http.StatusConflict, "Feedback already submitted for this course", existing)
		return
	}
	if err != mongo.ErrNoDocuments {
		respondServiceError(w, err)
		return
	}

	now := time.Now()
	feedback := models.Feedback{
		ID:             primitive.NewObjectID(),
		CreatedAt:      now,
		UpdatedAt:      now,
		UserID:         user.ID,
		CourseID:       courseID,
		Rating:         rating,
		Feedback:       text,
		FullName:       user.FullName,
		RememberTop:    r.FormValue("rememberTop") == "true",
		RememberBottom: r.FormValue("rememberBottom") == "true",
	}

	if file, _, ferr := r.FormFile("file"); ferr == nil && services.Cloud != nil {
		asset, uerr := services.Cloud.UploadImage(r.Context(), file, "learninghub/feedback")
		file.Close()
		if uerr != nil {
			log.Printf("⚠️ Feedback attachment upload failed: %v", uerr)
		} else {
			feedback.FileURL = asset.URL
			feedback.FilePublicID = asset.PublicID
		}
	}

	if _, err := coll.InsertOne(ctx, feedback); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race with a concurrent submission; return the winner.
			if ferr := coll.FindOne(ctx, bson.M{"user_id": user.ID, "course_id": courseID}).Decode(&existing); ferr == nil {
				respondJSON(w, http.StatusConflict, "Feedback already submitted for this course", existing)
				return
			}
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "Feedback submitted successfully", feedback)
}

// GetCourseFeedback lists reviews for a course, newest first.
func GetCourseFeedback(w http.ResponseWriter, r *http.Request) {
	courseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid courseId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.DB.Collection(database.FeedbacksCollection).Find(ctx,
		bson.M{"course_id": courseID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Feedback fetched successfully", feedbacks)
}

// GetUserFeedback lists a user's own reviews. Users may only read their
// own; admins may read anyone's.
func GetUserFeedback(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	if caller == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid userId")
		return
	}
	if caller.ID != userID && caller.Role != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "You can only view your own feedback")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.DB.Collection(database.FeedbacksCollection).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Feedback fetched successfully", feedbacks)
}
