package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

type UpdateProgressRequest struct {
	UserID    string `json:"userId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	LessonID  string `json:"lessonId" validate:"required"`
	Watched   int64  `json:"watched"`
	Completed *bool  `json:"completed"`
}

type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// UpdateProgress records watch time and completion for one lesson. The
// whole update is applied in a single atomic write, so concurrent updates
// to different lessons of the same course never lose entries.
func UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "userId, courseId and lessonId are required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid userId")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid courseId")
		return
	}
	lessonID, err := primitive.ObjectIDFromHex(req.LessonID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid lessonId")
		return
	}
	if req.Watched < 0 {
		respondError(w, http.StatusBadRequest, "watched must not be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	progress, err := services.Progress.UpdateLessonProgress(ctx, userID, courseID, lessonID, req.Watched, req.Completed)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Progress updated successfully", progress)
}

// GetProgress returns a user's progress for one course. Enrolled users who
// have not watched anything yet get a zero-state document, never a 404.
func GetProgress(w http.ResponseWriter, r *http.Request) {
	courseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "courseId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid courseId")
		return
	}
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	progress, err := services.Progress.GetProgress(ctx, userID, courseID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Progress fetched successfully", progress)
}

// GetUserProgress lists a user's progress across all courses, most
// recently accessed first.
func GetUserProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := services.Progress.ListUserProgress(ctx, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Progress fetched successfully", list)
}
