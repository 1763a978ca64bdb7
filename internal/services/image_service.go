package services

import (
	"context"
	"fmt"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
)

// ImageService handles image uploads.
type ImageService struct {
	imageRepo     repository.ImageRepository
	storage       storage.Storage
	publicBaseURL string
}

// NewImageService creates a new ImageService.
func NewImageService(imageRepo repository.ImageRepository, store storage.Storage, publicBaseURL string) *ImageService {
	return &ImageService{
		imageRepo:     imageRepo,
		storage:       store,
		publicBaseURL: publicBaseURL,
	}
}

// Upload stores the raw image bytes and records the upload. The returned
// image is not attached to any post yet.
func (s *ImageService) Upload(ctx context.Context, data []byte, extension string, uploader *models.User) (*models.UploadedImage, error) {
	objectKey, err := s.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "images",
		Extension: extension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	image := &models.UploadedImage{
		ObjectKey: objectKey,
	}
	if uploader != nil {
		image.UploadedByID = &uploader.ID
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, fmt.Errorf("failed to record image: %w", err)
	}
	return image, nil
}

// PublicURL builds the address the stored image is served from.
func (s *ImageService) PublicURL(image *models.UploadedImage) string {
	if image == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.publicBaseURL, "/"), strings.TrimLeft(image.ObjectKey, "/"))
}
