package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/AnshRaj112/learninghub-backend/internal/services"
	"github.com/AnshRaj112/learninghub-backend/pkg/utils"
)

type SignupRequest struct {
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7,max=20"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Signup registers a pending account and emails a verification link.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Full name, email, phone number and a password of at least 8 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := services.Auth.Signup(ctx, req.FullName, req.Email, req.PhoneNumber, req.Password); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "Signup successful. Please check your email to verify your account.", nil)
}

// VerifyEmail consumes a signup token and creates the account.
func VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Email and token are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := services.Auth.VerifyEmail(ctx, req.Email, req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Email verified successfully. You can now log in.", map[string]interface{}{
		"user": user.Public(),
	})
}

// ResendVerification rotates the pending signup token and re-sends the link.
func ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := services.Auth.ResendVerification(ctx, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Verification email sent. Please check your inbox.", nil)
}

// Login checks credentials and returns a signed token.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	token, user, err := services.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// SendOTP issues a one-time code to the given email.
func SendOTP(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	email := utils.NormalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	code, err := services.OTP.Generate(ctx, email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	subject, html, text := services.OTPEmail(code)
	if err := services.Mail.Send(email, subject, html, text); err != nil {
		log.Printf("⚠️ Failed to send OTP email to %s: %v", email, err)
		respondError(w, http.StatusInternalServerError, "Failed to send OTP email")
		return
	}

	respondJSON(w, http.StatusOK, "OTP sent. It expires in 10 minutes.", nil)
}

// VerifyOTP checks a one-time code. Codes are consumed on success and
// discarded after 5 wrong attempts.
func VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Email and a 6-digit OTP are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	email := utils.NormalizeEmail(req.Email)
	if err := services.OTP.Verify(ctx, email, req.OTP); err != nil {
		respondServiceError(w, err)
		return
	}

	// An account for this email gets its verification flag flipped and a
	// session token; a pre-signup OTP check just reports success.
	token, user, err := services.Auth.VerifyEmailByOTP(ctx, email)
	if err == services.ErrUserNotFound {
		respondJSON(w, http.StatusOK, "OTP verified successfully", nil)
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "OTP verified successfully", map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// ForgotPassword emails a reset link when the account exists. The response
// does not reveal whether the email is registered.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := services.Auth.ForgotPassword(ctx, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "If an account exists for this email, a password reset link has been sent.", nil)
}

// ResetPassword consumes a reset token and stores the new password.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Email, token and a password of at least 8 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := services.Auth.ResetPassword(ctx, req.Email, req.Token, req.Password); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Password reset successfully. You can now log in.", nil)
}
