package services

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/pkg/utils"
)

// AuthService glues the token lifecycle to account creation: signup issues
// a token gating the account, verify-email consumes it and creates the
// user, resend rotates it, and the password-reset flow reuses the same
// machinery with a shorter TTL.
type AuthService struct {
	users       UserStore
	tokens      *TokenService
	mailer      Mailer
	frontendURL string
	jwtSecret   string
}

func NewAuthService(users UserStore, tokens *TokenService, mailer Mailer, frontendURL, jwtSecret string) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: frontendURL,
		jwtSecret:   jwtSecret,
	}
}

// Signup stores the pending account inside a 24h signup token and emails
// the verification link. No user document exists until the link is used.
// The token is created before the send and is not rolled back when the
// send fails; that failure surfaces to the caller.
func (s *AuthService) Signup(ctx context.Context, fullName, email, phoneNumber, password string) error {
	email = utils.NormalizeEmail(email)

	existing, err := s.users.FindByEmailOrPhone(ctx, email, phoneNumber)
	if err != nil && err != ErrUserNotFound {
		return err
	}
	if existing != nil {
		if existing.Email == email {
			return ErrEmailTaken
		}
		return ErrPhoneTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, email, models.TokenTypeSignup, models.SignupPayload{
		FullName:    fullName,
		PhoneNumber: phoneNumber,
		Password:    hashed,
	}, SignupTokenTTL)
	if err != nil {
		return err
	}

	return s.sendVerificationLink(email, fullName, token)
}

// VerifyEmail consumes the signup token and creates the account. When two
// callers race on the same valid token, the unique email index lets only
// one insert win; the loser detects the duplicate and returns the existing
// user as success, so the race is never client-visible.
func (s *AuthService) VerifyEmail(ctx context.Context, email, token string) (*models.User, error) {
	email = utils.NormalizeEmail(email)

	payload, err := s.tokens.Consume(ctx, email, token, models.TokenTypeSignup)
	if err != nil {
		return nil, err
	}

	// Account may already exist: an earlier verification, or an admin
	// created it. Flip the flag and report success.
	if existing, err := s.users.FindByEmail(ctx, email); err == nil {
		if !existing.IsEmailVerified {
			if err := s.users.SetEmailVerified(ctx, existing.ID); err != nil {
				return nil, err
			}
			existing.IsEmailVerified = true
		}
		return existing, nil
	} else if err != ErrUserNotFound {
		return nil, err
	}

	if payload.Password == "" || payload.FullName == "" || payload.PhoneNumber == "" {
		return nil, ErrIncompleteSignup
	}

	user := &models.User{
		FullName:        payload.FullName,
		Email:           email,
		PhoneNumber:     payload.PhoneNumber,
		Password:        payload.Password,
		Role:            models.RoleUser,
		Status:          models.StatusActive,
		IsEmailVerified: true,
	}
	err = s.users.Create(ctx, user)
	if err == ErrEmailTaken {
		// Lost the creation race. Fetch the winner's record and succeed.
		winner, ferr := s.users.FindByEmail(ctx, email)
		if ferr != nil {
			return nil, ferr
		}
		if !winner.IsEmailVerified {
			if err := s.users.SetEmailVerified(ctx, winner.ID); err != nil {
				return nil, err
			}
			winner.IsEmailVerified = true
		}
		return winner, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ResendVerification rotates the pending signup token and re-sends the
// link. No pending token means the signup lapsed; an existing account means
// a prior verification already won, so the stale token is dropped instead
// of rotated.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)

	if _, err := s.tokens.FindPending(ctx, email, models.TokenTypeSignup); err != nil {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		_ = s.tokens.Revoke(ctx, email, models.TokenTypeSignup)
		return ErrAlreadyVerified
	} else if err != ErrUserNotFound {
		return err
	}

	newToken, payload, err := s.tokens.Rotate(ctx, email, models.TokenTypeSignup, SignupTokenTTL)
	if err != nil {
		return err
	}

	name := payload.FullName
	if name == "" {
		name = "User"
	}
	return s.sendVerificationLink(email, name, newToken)
}

// Login checks credentials and account state and returns a signed 7-day
// token with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = utils.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err == ErrUserNotFound {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !utils.VerifyPassword(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return "", nil, ErrEmailNotVerified
	}
	if user.Status != models.StatusActive {
		return "", nil, ErrAccountBlocked
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.FullName, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyEmailByOTP marks the account verified after a successful OTP
// check and returns a signed session token.
func (s *AuthService) VerifyEmailByOTP(ctx context.Context, email string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return "", nil, err
	}

	if !user.IsEmailVerified {
		if err := s.users.SetEmailVerified(ctx, user.ID); err != nil {
			return "", nil, err
		}
		user.IsEmailVerified = true
	}
	if user.Status != models.StatusActive {
		return "", nil, ErrAccountBlocked
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.FullName, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword issues a 1h reset token and mails the link. Whether the
// account exists is never revealed; a missing user is a silent success.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err == ErrUserNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, email, models.TokenTypePasswordReset, models.SignupPayload{}, PasswordResetTokenTTL)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/create-new-password?token=%s&email=%s", s.frontendURL, token, email)
	subject, html, text := PasswordResetEmail(user.FullName, link)
	return s.mailer.Send(email, subject, html, text)
}

// ResetPassword consumes the reset token and stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, password string) error {
	email = utils.NormalizeEmail(email)

	if _, err := s.tokens.Consume(ctx, email, token, models.TokenTypePasswordReset); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hashed)
}

func (s *AuthService) sendVerificationLink(email, fullName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s&email=%s", s.frontendURL, token, email)
	subject, html, text := VerificationEmail(fullName, link)
	return s.mailer.Send(email, subject, html, text)
}
