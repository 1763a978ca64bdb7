package dto

import (
	"time"

	"blogapi/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID               uint64     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	UserType         string     `json:"user_type"`
	RegType          *string    `json:"reg_type"`
	IsEmailConfirmed bool       `json:"is_email_confirmed"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

// AuthResponse represents a successful login or token refresh
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		UserType:         string(user.UserType),
		IsEmailConfirmed: user.IsEmailConfirmed,
		LastLogin:        user.LastLogin,
	}
	if user.RegType != nil {
		regType := string(*user.RegType)
		dto.RegType = &regType
	}
	return dto
}
