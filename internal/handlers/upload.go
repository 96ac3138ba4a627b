package handlers

import (
	"net/http"
	"strings"

	"github.com/AnshRaj112/learninghub-backend/internal/services"
)

// UploadFile uploads a standalone asset to Cloudinary. Admin only; used by
// the dashboard for images that are not tied to a course form submit.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if services.Cloud == nil {
		respondError(w, http.StatusInternalServerError, "File storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	if folder == "" {
		folder = "learninghub"
	}

	var asset *services.MediaAsset
	if r.URL.Query().Get("type") == "video" {
		asset, err = services.Cloud.UploadVideo(r.Context(), file, folder)
	} else {
		asset, err = services.Cloud.UploadImage(r.Context(), file, folder)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusOK, "File uploaded successfully", map[string]string{
		"url":       asset.URL,
		"public_id": asset.PublicID,
	})
}
