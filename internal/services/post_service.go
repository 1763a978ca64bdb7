package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"blogapi/internal/constants"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/utils"
)

var (
	ErrPostNotFound          = errors.New("post not found")
	ErrImageNotFound         = errors.New("no image with this id")
	ErrImageAlreadyAttached  = errors.New("image already belongs to a post")
	ErrDefaultImageNotListed = errors.New("default image must be included in images list")
	ErrTooManyTags           = errors.New("too many tags")
	ErrTooManyImages         = errors.New("too many images")
	ErrTagNameTooLong        = errors.New("tag name too long")
	ErrInvalidReviewStatus   = errors.New("invalid review status")
)

// PostService handles post creation, listing and moderation.
type PostService struct {
	postRepo  repository.PostRepository
	tagRepo   repository.TagRepository
	imageRepo repository.ImageRepository
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository, tagRepo repository.TagRepository, imageRepo repository.ImageRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		imageRepo: imageRepo,
	}
}

// CreatePostInput represents the required information to create a post.
type CreatePostInput struct {
	Title          string
	SubTitle       string
	Description    string
	Tags           []string
	ImageIDs       []string
	DefaultImageID *string
	Creator        *models.User
}

// CreatePost validates the attachments, resolves tags and stores the post.
// The review status is decided by the creator's role: redactors and staff
// publish immediately, readers land in the pending queue.
func (s *PostService) CreatePost(input CreatePostInput) (*models.Post, error) {
	if input.Creator == nil {
		return nil, fmt.Errorf("creator is required")
	}

	tagNames, err := normalizeTagNames(input.Tags)
	if err != nil {
		return nil, err
	}

	images, err := s.resolveImages(input.ImageIDs, input.DefaultImageID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		CreatedByID:    &input.Creator.ID,
		Title:          strings.TrimSpace(input.Title),
		SubTitle:       strings.TrimSpace(input.SubTitle),
		Description:    input.Description,
		DefaultImageID: input.DefaultImageID,
	}
	if input.Creator.IsRedactor() || input.Creator.IsStaff() {
		now := time.Now()
		post.ReviewStatus = models.ReviewStatusApproved
		post.DatePublished = &now
	} else {
		post.ReviewStatus = models.ReviewStatusPending
	}

	tags, err := s.resolveTags(tagNames)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.CreateWithRelations(post, tags, images); err != nil {
		if errors.Is(err, repository.ErrImageTaken) {
			return nil, ErrImageAlreadyAttached
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		// A concurrent request inserted one of the pending tags first.
		// Re-resolve against the now-existing rows and try again.
		post.ID = 0
		post.Tags = nil
		if tags, err = s.resolveTags(tagNames); err != nil {
			return nil, err
		}
		if err := s.postRepo.CreateWithRelations(post, tags, images); err != nil {
			if errors.Is(err, repository.ErrImageTaken) {
				return nil, ErrImageAlreadyAttached
			}
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
	}

	return s.GetPost(post.ID)
}

// GetPost fetches a post with all of its relations.
func (s *PostService) GetPost(id uint64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(id, "Tags", "Images", "Comments", "DefaultImage")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPosts returns the posts visible to the given user. Redactors and
// staff see their own posts regardless of review status, everyone else
// only sees approved posts.
func (s *PostService) ListPosts(user *models.User, params utils.PaginationParams) ([]models.Post, int64, error) {
	filter := repository.PostFilter{
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if user != nil && (user.IsRedactor() || user.IsStaff()) {
		filter.CreatedByID = &user.ID
	} else {
		approved := models.ReviewStatusApproved
		filter.ReviewStatus = &approved
	}

	posts, total, err := s.postRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

// SetArchived toggles the archive flag on a post.
func (s *PostService) SetArchived(post *models.Post, archived bool) error {
	post.IsArchived = archived
	if err := s.postRepo.Update(post); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Review resolves a pending post. Only approved and declined are valid
// outcomes; approving stamps the publication date if it is not set yet.
func (s *PostService) Review(id uint64, status models.ReviewStatus) (*models.Post, error) {
	if status != models.ReviewStatusApproved && status != models.ReviewStatusDeclined {
		return nil, ErrInvalidReviewStatus
	}

	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	post.ReviewStatus = status
	if status == models.ReviewStatusApproved && post.DatePublished == nil {
		now := time.Now()
		post.DatePublished = &now
	}
	if err := s.postRepo.UpdateReviewStatus(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// resolveImages loads the referenced images and checks that each one is
// still unattached and that the default image is part of the list. Repeated
// ids collapse to a single attachment.
func (s *PostService) resolveImages(imageIDs []string, defaultImageID *string) ([]models.UploadedImage, error) {
	unique := make([]string, 0, len(imageIDs))
	seen := make(map[string]struct{}, len(imageIDs))
	for _, id := range imageIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) > constants.MaxImagesPerPost {
		return nil, ErrTooManyImages
	}
	if defaultImageID != nil {
		if _, ok := seen[*defaultImageID]; !ok {
			return nil, ErrDefaultImageNotListed
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	images, err := s.imageRepo.FindByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	if len(images) != len(unique) {
		return nil, ErrImageNotFound
	}
	for _, image := range images {
		if image.PostID != nil {
			return nil, ErrImageAlreadyAttached
		}
	}
	return images, nil
}

// resolveTags maps the names onto existing tags where a case-insensitive
// match exists and builds pending rows for the rest.
func (s *PostService) resolveTags(names []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tagRepo.FindByNameFold(name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to look up tag: %w", err)
			}
			tag = &models.Tag{Name: name}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func normalizeTagNames(raw []string) ([]string, error) {
	if len(raw) > constants.MaxTagsPerPost {
		return nil, ErrTooManyTags
	}
	names := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if len(name) > constants.MaxTagNameLength {
			return nil, ErrTagNameTooLong
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
