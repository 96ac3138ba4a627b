package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

func TestRespondServiceErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid token", services.ErrInvalidToken, http.StatusBadRequest},
		{"expired token", services.ErrTokenExpired, http.StatusBadRequest},
		{"already verified", services.ErrAlreadyVerified, http.StatusBadRequest},
		{"no pending verification", services.ErrNoPendingVerification, http.StatusNotFound},
		{"incomplete signup", services.ErrIncompleteSignup, http.StatusBadRequest},
		{"user not found", services.ErrUserNotFound, http.StatusNotFound},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"phone taken", services.ErrPhoneTaken, http.StatusConflict},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"email not verified", services.ErrEmailNotVerified, http.StatusForbidden},
		{"blocked account", services.ErrAccountBlocked, http.StatusForbidden},
		{"course not found", services.ErrCourseNotFound, http.StatusNotFound},
		{"not enrolled", services.ErrNotEnrolled, http.StatusForbidden},
		{"duplicate feedback", services.ErrDuplicateFeedback, http.StatusConflict},
		{"invalid price", services.ErrInvalidPrice, http.StatusBadRequest},
		{"otp missing", services.ErrOTPNotFound, http.StatusBadRequest},
		{"otp mismatch", services.ErrOTPMismatch, http.StatusBadRequest},
		{"otp attempts exhausted", services.ErrOTPTooManyAttempts, http.StatusTooManyRequests},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondServiceError(w, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRespondServiceErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	respondServiceError(w, errors.New("dial tcp 127.0.0.1:27017: connection refused"))

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Message, "27017")
}
