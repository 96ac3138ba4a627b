package handlers

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/learninghub-backend/internal/database"
	"github.com/AnshRaj112/learninghub-backend/internal/middleware"
	"github.com/AnshRaj112/learninghub-backend/internal/models"
	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

// maxCourseFormSize bounds the multipart payload (thumbnail plus videos).
const maxCourseFormSize = 512 << 20

// parseStringList accepts either a JSON array string or a comma-separated
// list, since the dashboard has sent both over time.
func parseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out
		}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloatField(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

type lessonPayload struct {
	LessonName       string   `json:"lesson_name"`
	Skills           []string `json:"skills"`
	LearningOutcomes string   `json:"learning_outcomes"`
	Duration         int64    `json:"duration"`
	Order            int      `json:"order"`
}

// uploadLessonVideos uploads files named lessonVideos in order, assigning
// each to the lesson with the same index. Returns the uploaded assets so
// the caller can roll them back on failure.
func uploadLessonVideos(ctx context.Context, files []*multipart.FileHeader, lessons []models.Lesson) ([]*services.MediaAsset, error) {
	var uploaded []*services.MediaAsset
	for i, fh := range files {
		if i >= len(lessons) {
			break
		}
		file, err := fh.Open()
		if err != nil {
			return uploaded, err
		}
		asset, err := services.Cloud.UploadVideo(ctx, file, "learninghub/lessons")
		file.Close()
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, asset)
		lessons[i].VideoURL = asset.URL
		lessons[i].VideoPublicID = asset.PublicID
	}
	return uploaded, nil
}

func rollbackAssets(assets []*services.MediaAsset) {
	for _, asset := range assets {
		if err := services.Cloud.Delete(context.Background(), asset.PublicID, asset.ResourceType); err != nil {
			log.Printf("⚠️ Failed to clean up asset %s: %v", asset.PublicID, err)
		}
	}
}

func buildCourseFromForm(r *http.Request, course *models.Course) (string, bool) {
	course.Title = strings.TrimSpace(r.FormValue("title"))
	course.Category = strings.TrimSpace(r.FormValue("category"))
	course.Instructor = strings.TrimSpace(r.FormValue("instructor"))
	course.Price = strings.TrimSpace(r.FormValue("price"))
	course.Description = r.FormValue("description")
	course.Skills = parseStringList(r.FormValue("skills"))
	course.Keywords = parseStringList(r.FormValue("keywords"))

	if course.Title == "" || course.Category == "" || course.Price == "" {
		return "Title, category and price are required", false
	}

	discount, err := parseFloatField(r, "discountPercentage", 0)
	if err != nil || discount < 0 || discount > 100 {
		return "discountPercentage must be between 0 and 100", false
	}
	course.DiscountPercentage = discount

	tax, err := parseFloatField(r, "taxPercentage", 0)
	if err != nil || tax < 0 || tax > 70 {
		return "taxPercentage must be between 0 and 70", false
	}
	course.TaxPercentage = tax

	if level := strings.TrimSpace(r.FormValue("courseLevel")); level != "" {
		if level != models.LevelBeginner && level != models.LevelIntermediate && level != models.LevelExpert {
			return "courseLevel must be Beginner, Intermediate or Expert", false
		}
		course.CourseLevel = level
	}

	if status := strings.TrimSpace(r.FormValue("status")); status != "" {
		if status != models.CourseStatusDraft && status != models.CourseStatusPublished {
			return "status must be draft or published", false
		}
		course.Status = status
	} else if course.Status == "" {
		course.Status = models.CourseStatusDraft
	}

	if raw := strings.TrimSpace(r.FormValue("faqs")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &course.FAQs); err != nil {
			return "faqs must be a JSON array of {question, answer}", false
		}
	}

	if raw := strings.TrimSpace(r.FormValue("lessons")); raw != "" {
		var payloads []lessonPayload
		if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
			return "lessons must be a JSON array", false
		}
		lessons := make([]models.Lesson, 0, len(payloads))
		for i, p := range payloads {
			if strings.TrimSpace(p.LessonName) == "" {
				return "Each lesson needs a lesson_name", false
			}
			order := p.Order
			if order == 0 {
				order = i + 1
			}
			lessons = append(lessons, models.Lesson{
				ID:               primitive.NewObjectID(),
				LessonName:       p.LessonName,
				Skills:           p.Skills,
				LearningOutcomes: p.LearningOutcomes,
				Duration:         p.Duration,
				Order:            order,
			})
		}
		course.Lessons = lessons
	}

	return "", true
}

// GetCourses lists courses. Unauthenticated callers only see published
// ones; ?status= filtering is admin-only.
func GetCourses(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	filter := bson.M{"status": models.CourseStatusPublished}
	if user != nil && user.Role == models.RoleAdmin {
		filter = bson.M{}
		if status := r.URL.Query().Get("status"); status != "" {
			filter["status"] = status
		}
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	page, limit := parsePaging(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coll := database.DB.Collection(database.CoursesCollection)
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	cursor, err := coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page-1)*int64(limit)).
		SetLimit(int64(limit)))
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

	respondJSON(w, http.StatusOK, "Courses fetched successfully", map[string]interface{}{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func parsePaging(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

// GetCourse returns a single course by ID.
func GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var course models.Course
	err = database.DB.Collection(database.CoursesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "Course not found")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Drafts are visible to admins only.
	user := middleware.UserFromContext(r.Context())
	if course.Status != models.CourseStatusPublished && (user == nil || user.Role != models.RoleAdmin) {
		respondError(w, http.StatusNotFound, "Course not found")
		return
	}

	enrolled, err := database.DB.Collection(database.UsersCollection).CountDocuments(ctx,
		bson.M{"enrolled_courses": id})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Course fetched successfully", map[string]interface{}{
		"course":         course,
		"enrolled_count": enrolled,
	})
}

// CreateCourse creates a course from a multipart form. The thumbnail file
// and any lessonVideos files are uploaded first; uploads already made are
// removed if the insert fails.
func CreateCourse(w http.ResponseWriter, r *http.Request) {
	if services.Cloud == nil {
		respondError(w, http.StatusInternalServerError, "File storage is not configured")
		return
	}
	if err := r.ParseMultipartForm(maxCourseFormSize); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	course := &models.Course{}
	if msg, ok := buildCourseFromForm(r, course); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if admin := middleware.UserFromContext(r.Context()); admin != nil {
		course.CreatedBy = admin.ID
	}

	var uploaded []*services.MediaAsset

	if file, _, err := r.FormFile("thumbnail"); err == nil {
		asset, err := services.Cloud.UploadImage(r.Context(), file, "learninghub/thumbnails")
		file.Close()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to upload thumbnail")
			return
		}
		uploaded = append(uploaded, asset)
		course.ThumbnailURL = asset.URL
		course.ThumbnailPublicID = asset.PublicID
	}

	if r.MultipartForm != nil {
		videoAssets, err := uploadLessonVideos(r.Context(), r.MultipartForm.File["lessonVideos"], course.Lessons)
		uploaded = append(uploaded, videoAssets...)
		if err != nil {
			rollbackAssets(uploaded)
			respondError(w, http.StatusInternalServerError, "Failed to upload lesson videos")
			return
		}
	}

	now := time.Now()
	course.ID = primitive.NewObjectID()
	course.CreatedAt = now
	course.UpdatedAt = now

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := database.DB.Collection(database.CoursesCollection).InsertOne(ctx, course); err != nil {
		rollbackAssets(uploaded)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "Course created successfully", course)
}

// UpdateCourse updates course fields from a multipart form. A new
// thumbnail replaces the old one; the previous asset is deleted
// best-effort after the write succeeds.
func UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}
	if err := r.ParseMultipartForm(maxCourseFormSize); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coll := database.DB.Collection(database.CoursesCollection)
	var existing models.Course
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "Course not found")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	course := existing
	if msg, ok := buildCourseFromForm(r, &course); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	var uploaded []*services.MediaAsset
	oldThumbnail := ""

	if file, _, ferr := r.FormFile("thumbnail"); ferr == nil {
		if services.Cloud == nil {
			respondError(w, http.StatusInternalServerError, "File storage is not configured")
			return
		}
		asset, uerr := services.Cloud.UploadImage(r.Context(), file, "learninghub/thumbnails")
		file.Close()
		if uerr != nil {
			respondError(w, http.StatusInternalServerError, "Failed to upload thumbnail")
			return
		}
		uploaded = append(uploaded, asset)
		oldThumbnail = existing.ThumbnailPublicID
		course.ThumbnailURL = asset.URL
		course.ThumbnailPublicID = asset.PublicID
	}

	if r.MultipartForm != nil && len(r.MultipartForm.File["lessonVideos"]) > 0 {
		if services.Cloud == nil {
			respondError(w, http.StatusInternalServerError, "File storage is not configured")
			return
		}
		videoAssets, uerr := uploadLessonVideos(r.Context(), r.MultipartForm.File["lessonVideos"], course.Lessons)
		uploaded = append(uploaded, videoAssets...)
		if uerr != nil {
			rollbackAssets(uploaded)
			respondError(w, http.StatusInternalServerError, "Failed to upload lesson videos")
			return
		}
	}

	course.UpdatedAt = time.Now()
	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, course); err != nil {
		rollbackAssets(uploaded)
		respondServiceError(w, err)
		return
	}

	if oldThumbnail != "" && services.Cloud != nil {
		if err := services.Cloud.Delete(context.Background(), oldThumbnail, "image"); err != nil {
			log.Printf("⚠️ Failed to delete old thumbnail %s: %v", oldThumbnail, err)
		}
	}

	respondJSON(w, http.StatusOK, "Course updated successfully", course)
}

// DeleteCourse removes a course and best-effort deletes its media.
func DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coll := database.DB.Collection(database.CoursesCollection)
	var course models.Course
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "Course not found")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		respondServiceError(w, err)
		return
	}

	if services.Cloud != nil {
		if course.ThumbnailPublicID != "" {
			if err := services.Cloud.Delete(context.Background(), course.ThumbnailPublicID, "image"); err != nil {
				log.Printf("⚠️ Failed to delete thumbnail %s: %v", course.ThumbnailPublicID, err)
			}
		}
		for _, lesson := range course.Lessons {
			if lesson.VideoPublicID == "" {
				continue
			}
			if err := services.Cloud.Delete(context.Background(), lesson.VideoPublicID, "video"); err != nil {
				log.Printf("⚠️ Failed to delete lesson video %s: %v", lesson.VideoPublicID, err)
			}
		}
	}

	respondJSON(w, http.StatusOK, "Course deleted successfully", nil)
}
