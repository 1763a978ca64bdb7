package models

import "time"

type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(42);not null" json:"name"`
	Email       string    `gorm:"type:varchar(75);not null" json:"email"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PostID      uint64    `gorm:"not null;index" json:"post_id"`
	DateCreated time.Time `gorm:"autoCreateTime" json:"date_created"`

	// Relations
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
