package models

import (
	"time"
)

type ReviewStatus string

const (
	ReviewStatusNotApplied ReviewStatus = "not_applied"
	ReviewStatusPending    ReviewStatus = "pending"
	ReviewStatusApproved   ReviewStatus = "approved"
	ReviewStatusDeclined   ReviewStatus = "declined"
)

type Post struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	CreatedByID    *uint64      `gorm:"index" json:"created_by_id"`
	IsArchived     bool         `gorm:"not null;default:false" json:"is_archived"`
	Title          string       `gorm:"type:varchar(50);index" json:"title"`
	SubTitle       string       `gorm:"type:varchar(100)" json:"sub_title"`
	Description    string       `gorm:"type:text" json:"description"`
	DefaultImageID *string      `gorm:"type:varchar(36)" json:"default_image_id"`
	ReviewStatus   ReviewStatus `gorm:"type:varchar(20);not null;default:'not_applied'" json:"review_status"`
	DateCreated    time.Time    `gorm:"autoCreateTime" json:"date_created"`
	DatePublished  *time.Time   `json:"date_published"`
	DateModified   *time.Time   `json:"date_modified"`

	// Relations
	CreatedBy    *User           `gorm:"foreignKey:CreatedByID" json:"-"`
	DefaultImage *UploadedImage  `gorm:"foreignKey:DefaultImageID" json:"-"`
	Tags         []Tag           `gorm:"many2many:post_tags" json:"tags"`
	Images       []UploadedImage `gorm:"foreignKey:PostID" json:"images"`
	Comments     []Comment       `gorm:"foreignKey:PostID" json:"comments"`
}

func (Post) TableName() string {
	return "posts"
}
