package repository

import (
	"errors"

	"blogapi/internal/models"
)

// ErrImageTaken is returned when an image attachment loses the race for an
// image that another post claimed first.
var ErrImageTaken = errors.New("image already attached to a post")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, matching case-insensitively
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// FindByNameFold finds a tag whose name matches case-insensitively
	FindByNameFold(name string) (*models.Tag, error)
}

// PostFilter holds filtering options for listing posts
type PostFilter struct {
	CreatedByID  *uint64
	ReviewStatus *models.ReviewStatus
	Limit        int
	Offset       int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	// CreateWithRelations persists the post, any not-yet-persisted tags, the
	// post-tag associations, and the image attachments in one transaction.
	CreateWithRelations(post *models.Post, tags []*models.Tag, images []models.UploadedImage) error

	// FindByID finds a post by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Post, error)

	// List retrieves posts with filtering and pagination
	List(filter PostFilter) ([]models.Post, int64, error)

	// Update updates a post
	Update(post *models.Post) error

	// UpdateReviewStatus persists only the moderation outcome of a post
	UpdateReviewStatus(post *models.Post) error
}

// ImageRepository defines the interface for uploaded image data access
type ImageRepository interface {
	// Create creates a new uploaded image record
	Create(image *models.UploadedImage) error

	// FindByID finds an image by its uuid
	FindByID(id string) (*models.UploadedImage, error)

	// FindByIDs resolves a set of image uuids to rows; missing ids are simply
	// absent from the result
	FindByIDs(ids []string) ([]models.UploadedImage, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error
}
