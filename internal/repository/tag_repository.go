package repository

import (
	"gorm.io/gorm"

	"blogapi/internal/models"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindByNameFold finds a tag matching the name case-insensitively, so
// "Golang" and "golang" resolve to the same row.
func (r *GormTagRepository) FindByNameFold(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}
