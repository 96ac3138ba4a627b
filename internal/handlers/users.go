package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

type UpdateProfileRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

// GetUsers lists accounts for the admin dashboard, optionally filtered by
// status (?status=active|blocked|inactive).
func GetUsers(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if status != models.StatusActive && status != models.StatusBlocked && status != models.StatusInactive {
			respondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.DB.Collection(database.UsersCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	respondJSON(w, http.StatusOK, "Users fetched successfully", out)
}

// GetProfile returns the authenticated user's own record.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	respondJSON(w, http.StatusOK, "Profile fetched successfully", map[string]interface{}{
		"user":             user.Public(),
		"enrolled_courses": user.EnrolledCourses,
	})
}

// UpdateProfile changes the authenticated user's name or phone number.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.FullName != "" {
		set["full_name"] = req.FullName
	}
	if req.PhoneNumber != "" {
		set["phone_number"] = req.PhoneNumber
	}
	if len(set) == 1 {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	_, err := database.DB.Collection(database.UsersCollection).UpdateOne(ctx,
		bson.M{"_id": user.ID}, bson.M{"$set": set})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Profile updated successfully", nil)
}

// EnrollInCourse adds a course reference to the authenticated user.
// Enrolling twice is a no-op and still succeeds.
func EnrollInCourse(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req EnrollRequest
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

	alreadyEnrolled, err := services.Progress.Enroll(ctx, user.ID, courseID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	message := "Enrolled successfully"
	if alreadyEnrolled {
		message = "Already enrolled in this course"
	}
	respondJSON(w, http.StatusOK, message, map[string]interface{}{
		"courseId":        courseID.Hex(),
		"alreadyEnrolled": alreadyEnrolled,
	})
}

// GetMyCourses returns the full course documents the user is enrolled in.
func GetMyCourses(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if len(user.EnrolledCourses) == 0 {
		respondJSON(w, http.StatusOK, "Courses fetched successfully", []models.Course{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.DB.Collection(database.CoursesCollection).Find(ctx,
		bson.M{"_id": bson.M{"$in": user.EnrolledCourses}})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Courses fetched successfully", courses)
}
