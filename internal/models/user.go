package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeSystem UserType = "system"
	UserTypeClient UserType = "client"
)

type RegType string

const (
	// RegTypeDefault is stored as "user" to match the wire value clients send.
	RegTypeDefault  RegType = "user"
	RegTypeRedactor RegType = "redactor"
)

type User struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Email            string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName        string         `gorm:"type:varchar(30)" json:"first_name"`
	LastName         string         `gorm:"type:varchar(30)" json:"last_name"`
	UserType         UserType       `gorm:"type:varchar(12);index;not null;default:'client'" json:"user_type"`
	RegType          *RegType       `gorm:"type:varchar(12);index" json:"reg_type"`
	IsSuperuser      bool           `gorm:"not null;default:false" json:"-"`
	IsEmailConfirmed bool           `gorm:"not null;default:false" json:"-"`
	LastLogin        *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Posts  []Post          `gorm:"foreignKey:CreatedByID" json:"-"`
	Images []UploadedImage `gorm:"foreignKey:UploadedByID" json:"-"`
}

// BeforeSave enforces the identity invariants on every write: emails are
// stored lowercased, and a system account is always a superuser with no
// registration type, regardless of what was supplied.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.UserType == UserTypeSystem {
		u.IsSuperuser = true
		u.RegType = nil
	}
	return nil
}

// IsStaff reports whether the user holds the administrative system role.
func (u *User) IsStaff() bool {
	return u.UserType == UserTypeSystem
}

// IsRedactor reports whether the user is a client with elevated content
// privileges.
func (u *User) IsRedactor() bool {
	return u.UserType == UserTypeClient && u.RegType != nil && *u.RegType == RegTypeRedactor
}

// IsDefault reports whether the user is a self-registered client whose posts
// require moderation.
func (u *User) IsDefault() bool {
	return u.UserType == UserTypeClient && u.RegType != nil && *u.RegType == RegTypeDefault
}
