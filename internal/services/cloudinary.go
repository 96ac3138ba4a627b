package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaAsset is the persisted reference to an uploaded file.
type MediaAsset struct {
	URL          string
	PublicID     string
	ResourceType string
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) UploadImage(ctx context.Context, file io.Reader, folder string) (*MediaAsset, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &MediaAsset{URL: result.SecureURL, PublicID: result.PublicID, ResourceType: "image"}, nil
}

func (s *CloudinaryService) UploadVideo(ctx context.Context, file io.Reader, folder string) (*MediaAsset, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "video",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	return &MediaAsset{URL: result.SecureURL, PublicID: result.PublicID, ResourceType: "video"}, nil
}

// Delete removes an asset. Callers treat failures as best-effort cleanup.
func (s *CloudinaryService) Delete(ctx context.Context, publicID, resourceType string) error {
	if resourceType == "" {
		resourceType = "image"
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", publicID, err)
	}
	return nil
}
