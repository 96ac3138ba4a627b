package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// to HTTP status codes and the JSON failure envelope; nothing here crosses
// the process boundary as a crash.
var (
	// Token lifecycle
	ErrTokenNotFound         = errors.New("verification token not found")
	ErrInvalidToken          = errors.New("invalid or expired verification link")
	ErrTokenExpired          = errors.New("verification link has expired")
	ErrNoPendingVerification = errors.New("no pending verification found")
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrIncompleteSignup      = errors.New("signup data is incomplete")

	// Accounts
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email verification pending")
	ErrAccountBlocked     = errors.New("account is blocked")

	// Catalog and enrollment
	ErrCourseNotFound   = errors.New("course not found")
	ErrNotEnrolled      = errors.New("user is not enrolled in this course")
	ErrProgressNotFound = errors.New("course progress not found")

	// Feedback and payments
	ErrDuplicateFeedback = errors.New("feedback already submitted for this course")
	ErrInvalidPrice      = errors.New("invalid course price configuration")

	// OTP store
	ErrOTPNotFound        = errors.New("OTP not found or expired")
	ErrOTPMismatch        = errors.New("invalid OTP")
	ErrOTPTooManyAttempts = errors.New("too many attempts, request a new OTP")
)
