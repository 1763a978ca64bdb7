package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"blogapi/internal/auth"
	"blogapi/internal/constants"
	"blogapi/internal/models"
	"blogapi/internal/queue"
	"blogapi/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration and login business logic.
type AuthService struct {
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

// NewAuthService creates a new AuthService. The publisher may be nil, in
// which case no verification emails are enqueued.
func NewAuthService(userRepo repository.UserRepository, publisher queue.Publisher) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
	RegType         string
}

// Register creates a new client user. Unknown reg_type values are coerced
// to the default reader role rather than rejected.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	regType := models.RegTypeDefault
	if models.RegType(input.RegType) == models.RegTypeRedactor {
		regType = models.RegTypeRedactor
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserType:     models.UserTypeClient,
		RegType:      &regType,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.enqueueVerificationEmail(user)

	return user, nil
}

// Login checks the credentials and records the login time.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return user, nil
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// enqueueVerificationEmail schedules the confirmation email. Failures are
// logged and never fail the registration itself.
func (s *AuthService) enqueueVerificationEmail(user *models.User) {
	if s.publisher == nil {
		return
	}
	task := queue.Task{
		Handler: queue.TaskSendVerificationEmail,
		Args: map[string]string{
			"user_id": fmt.Sprintf("%d", user.ID),
			"token":   uuid.New().String(),
		},
	}
	if err := s.publisher.Publish(task); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to enqueue verification email")
	}
}
