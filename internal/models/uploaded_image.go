package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadedImage is created standalone at upload time with no post reference
// and attached to exactly one post during post creation. The primary key is a
// random uuid so image ids cannot be enumerated.
type UploadedImage struct {
	ID           string    `gorm:"type:varchar(36);primary_key" json:"id"`
	UploadedByID *uint64   `gorm:"index" json:"-"`
	PostID       *uint64   `gorm:"index" json:"-"`
	ObjectKey    string    `gorm:"type:varchar(512);not null" json:"-"`
	DateCreated  time.Time `gorm:"autoCreateTime" json:"date_created"`

	// Relations
	UploadedBy *User `gorm:"foreignKey:UploadedByID" json:"-"`
	Post       *Post `gorm:"foreignKey:PostID" json:"-"`
}

func (img *UploadedImage) BeforeCreate(tx *gorm.DB) error {
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	return nil
}
