package repository

import (
	"gorm.io/gorm"

	"blogapi/internal/models"
)

// GormImageRepository is a GORM implementation of ImageRepository
type GormImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &GormImageRepository{db: db}
}

// Create creates a new uploaded image record
func (r *GormImageRepository) Create(image *models.UploadedImage) error {
	return r.db.Create(image).Error
}

// FindByID finds an image by its uuid
func (r *GormImageRepository) FindByID(id string) (*models.UploadedImage, error) {
	var image models.UploadedImage
	if err := r.db.Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// FindByIDs resolves image uuids to rows, preserving nothing about order;
// ids that do not exist are absent from the result.
func (r *GormImageRepository) FindByIDs(ids []string) ([]models.UploadedImage, error) {
	if len(ids) == 0 {
		return []models.UploadedImage{}, nil
	}
	var images []models.UploadedImage
	if err := r.db.Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
