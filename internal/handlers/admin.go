package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/pkg/utils"
)

type CreateAdminRequest struct {
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateAdmin creates a pre-verified admin account. Only reachable by an
// existing admin, so no email verification round-trip.
func CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Full name, email and a password of at least 8 characters are required")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	now := time.Now()
	admin := models.User{
		ID:              primitive.NewObjectID(),
		CreatedAt:       now,
		UpdatedAt:       now,
		FullName:        req.FullName,
		Email:           utils.NormalizeEmail(req.Email),
		PhoneNumber:     req.PhoneNumber,
		Password:        hashed,
		Role:            models.RoleAdmin,
		Status:          models.StatusActive,
		IsEmailVerified: true,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := database.DB.Collection(database.UsersCollection).InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "Admin created successfully", admin.Public())
}

// UpdateUserStatus blocks, unblocks or deactivates an account.
func UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != models.StatusActive && req.Status != models.StatusBlocked && req.Status != models.StatusInactive {
		respondError(w, http.StatusBadRequest, "status must be active, blocked or inactive")
		return
	}

	admin := middleware.UserFromContext(r.Context())
	if admin != nil && admin.ID == id && req.Status != models.StatusActive {
		respondError(w, http.StatusBadRequest, "You cannot block your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := database.DB.Collection(database.UsersCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, "User status updated successfully", nil)
}

// DeleteUser removes an account and its progress documents.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	admin := middleware.UserFromContext(r.Context())
	if admin != nil && admin.ID == id {
		respondError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := database.DB.Collection(database.UsersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	// Progress documents are owned by the account.
	if _, err := database.DB.Collection(database.ProgressCollection).DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		log.Printf("⚠️ Failed to delete progress for user %s: %v", id.Hex(), err)
	}

	respondJSON(w, http.StatusOK, "User deleted successfully", nil)
}
