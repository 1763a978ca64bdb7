package dto

import (
	"time"

	"blogapi/internal/models"
)

// ImageURLFunc resolves the public address of a stored image.
type ImageURLFunc func(*models.UploadedImage) string

// ImageDTO represents an uploaded image in API responses
type ImageDTO struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Text        string    `json:"text"`
	DateCreated time.Time `json:"date_created"`
}

// PostDTO represents a post with all of its relations
type PostDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	SubTitle      string              `json:"sub_title"`
	Description   string              `json:"description"`
	DefaultImage  *ImageDTO           `json:"default_image"`
	Images        []ImageDTO          `json:"images"`
	Tags          []string            `json:"tags"`
	IsArchived    bool                `json:"is_archived"`
	ReviewStatus  models.ReviewStatus `json:"review_status"`
	DateCreated   time.Time           `json:"date_created"`
	DatePublished *time.Time          `json:"date_published"`
	DateModified  *time.Time          `json:"date_modified"`
	Comments      []CommentDTO        `json:"comments"`
}

// PostListItemDTO represents a post in list responses (minimal data)
type PostListItemDTO struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	DefaultImage *ImageDTO `json:"default_image"`
	Tags         []string  `json:"tags"`
	IsArchived   bool      `json:"is_archived"`
}

// PostListResponse represents a paginated list of posts
type PostListResponse struct {
	Posts      []PostListItemDTO `json:"posts"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
	TotalCount int64             `json:"total_count"`
}

// Conversion functions

// ToImageDTO converts an UploadedImage model to ImageDTO
func ToImageDTO(image models.UploadedImage, urlFor ImageURLFunc) ImageDTO {
	return ImageDTO{
		ID:  image.ID,
		URL: urlFor(&image),
	}
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:          comment.ID,
		Name:        comment.Name,
		Text:        comment.Text,
		DateCreated: comment.DateCreated,
	}
}

// ToPostDTO converts a Post model to PostDTO
func ToPostDTO(post models.Post, urlFor ImageURLFunc) PostDTO {
	dto := PostDTO{
		ID:            post.ID,
		Title:         post.Title,
		SubTitle:      post.SubTitle,
		Description:   post.Description,
		IsArchived:    post.IsArchived,
		ReviewStatus:  post.ReviewStatus,
		DateCreated:   post.DateCreated,
		DatePublished: post.DatePublished,
		DateModified:  post.DateModified,
		Tags:          tagNames(post.Tags),
		Images:        make([]ImageDTO, 0, len(post.Images)),
		Comments:      make([]CommentDTO, 0, len(post.Comments)),
	}

	if post.DefaultImage != nil {
		image := ToImageDTO(*post.DefaultImage, urlFor)
		dto.DefaultImage = &image
	}
	for _, image := range post.Images {
		dto.Images = append(dto.Images, ToImageDTO(image, urlFor))
	}
	for _, comment := range post.Comments {
		dto.Comments = append(dto.Comments, ToCommentDTO(comment))
	}

	return dto
}

// ToPostListItemDTO converts a Post model to PostListItemDTO
func ToPostListItemDTO(post models.Post, urlFor ImageURLFunc) PostListItemDTO {
	dto := PostListItemDTO{
		ID:         post.ID,
		Title:      post.Title,
		Tags:       tagNames(post.Tags),
		IsArchived: post.IsArchived,
	}
	if post.DefaultImage != nil {
		image := ToImageDTO(*post.DefaultImage, urlFor)
		dto.DefaultImage = &image
	}
	return dto
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
