package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
	"github.com/AnshRaj112/learninghub-backend/pkg/utils"
)

type contextKey string

// UserContextKey holds the authenticated *models.User on the request context.
const UserContextKey contextKey = "authUser"

var jwtSecret string

// SetJWTSecret configures the secret used to validate bearer tokens.
// Must be called once at startup.
func SetJWTSecret(secret string) {
	jwtSecret = secret
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

// RequireAuth validates the Bearer token, loads the user and stores it on
// the request context. Blocked and inactive accounts are rejected even
// when their token is still valid.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, "Authorization token required")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := utils.ParseToken(tokenString, jwtSecret)
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		user, err := services.Users.FindByID(r.Context(), userID)
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}
		if user.Status != models.StatusActive {
			writeUnauthorized(w, "Account is not active")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the user onto the context when a valid Bearer token
// is present, and passes the request through anonymously otherwise. Lets
// public catalog endpoints show admins their drafts.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := utils.ParseToken(tokenString, jwtSecret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := services.Users.FindByID(r.Context(), userID)
		if err != nil || user.Status != models.StatusActive {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly allows only users with the admin role. Use after RequireAuth.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"Admin access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil outside RequireAuth.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
