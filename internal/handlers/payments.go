package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

type CreatePaymentIntentRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// CreatePaymentIntent computes the charge for a course and opens a
// payment intent. The amount is always derived server-side from the
// stored course price.
func CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid courseId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	course, err := services.Courses.FindByID(ctx, courseID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := services.Payments.CreateIntent(course, user.ID.Hex())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Payment intent created", result)
}
