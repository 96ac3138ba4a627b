package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

// requestTimeout bounds the database work done per request.
const requestTimeout = 5 * time.Second

var validate = validator.New()

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: status < 400,
		Message: message,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, message, nil)
}

// respondServiceError maps service-layer sentinels to HTTP statuses.
// Unknown errors are logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		respondError(w, http.StatusBadRequest, "Invalid verification token")
	case errors.Is(err, services.ErrTokenExpired):
		respondError(w, http.StatusBadRequest, "Verification token has expired")
	case errors.Is(err, services.ErrNoPendingVerification):
		respondError(w, http.StatusNotFound, "No pending verification found for this email")
	case errors.Is(err, services.ErrAlreadyVerified):
		respondError(w, http.StatusBadRequest, "Email is already verified. Please log in.")
	case errors.Is(err, services.ErrIncompleteSignup):
		respondError(w, http.StatusBadRequest, "Signup data is incomplete. Please sign up again.")
	case errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrEmailTaken):
		respondError(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, services.ErrPhoneTaken):
		respondError(w, http.StatusConflict, "User with this phone number already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrEmailNotVerified):
		respondError(w, http.StatusForbidden, "Please verify your email before logging in")
	case errors.Is(err, services.ErrAccountBlocked):
		respondError(w, http.StatusForbidden, "Your account has been blocked")
	case errors.Is(err, services.ErrCourseNotFound):
		respondError(w, http.StatusNotFound, "Course not found")
	case errors.Is(err, services.ErrNotEnrolled):
		respondError(w, http.StatusForbidden, "You are not enrolled in this course")
	case errors.Is(err, services.ErrDuplicateFeedback):
		respondError(w, http.StatusConflict, "Feedback already submitted for this course")
	case errors.Is(err, services.ErrInvalidPrice):
		respondError(w, http.StatusBadRequest, "Course has an invalid price")
	case errors.Is(err, services.ErrOTPNotFound):
		respondError(w, http.StatusBadRequest, "OTP has expired or was never issued")
	case errors.Is(err, services.ErrOTPMismatch):
		respondError(w, http.StatusBadRequest, "Incorrect OTP")
	case errors.Is(err, services.ErrOTPTooManyAttempts):
		respondError(w, http.StatusTooManyRequests, "Too many incorrect attempts. Please request a new OTP.")
	default:
		log.Printf("⚠️ Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
