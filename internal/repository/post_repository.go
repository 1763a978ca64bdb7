package repository

import (
	"gorm.io/gorm"

	"blogapi/internal/database"
	"blogapi/internal/models"
	"blogapi/internal/utils"
)

// GormPostRepository is a GORM implementation of PostRepository
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// CreateWithRelations atomically persists pending tags, the post itself, the
// post-tag associations, and the image attachments. Any failure rolls the
// whole write back, so no partial post is ever visible. A concurrent insert
// of the same tag name surfaces as gorm.ErrDuplicatedKey for the caller to
// retry; an image claimed by another post in the meantime surfaces as
// ErrImageTaken.
func (r *GormPostRepository) CreateWithRelations(post *models.Post, tags []*models.Tag, images []models.UploadedImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, tag := range tags {
			if tag.ID != 0 {
				continue
			}
			if err := tx.Create(tag).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(post).Error; err != nil {
			return err
		}

		if len(tags) > 0 {
			// Association is a set: two inputs resolving to the same tag row
			// attach it once.
			unique := make([]models.Tag, 0, len(tags))
			seen := make(map[uint64]struct{}, len(tags))
			for _, tag := range tags {
				if _, ok := seen[tag.ID]; ok {
					continue
				}
				seen[tag.ID] = struct{}{}
				unique = append(unique, *tag)
			}
			if err := tx.Model(post).Association("Tags").Append(&unique); err != nil {
				return err
			}
		}

		for i := range images {
			// Claim only still-free images. The caller validated them
			// outside this transaction, so a concurrent request may have
			// attached one in the meantime; losing that race rolls the
			// whole post back.
			res := tx.Model(&models.UploadedImage{}).
				Where("id = ? AND post_id IS NULL", images[i].ID).
				Update("post_id", post.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrImageTaken
			}
			images[i].PostID = &post.ID
		}

		return nil
	})
}

// FindByID finds a post by ID with optional preloading
func (r *GormPostRepository) FindByID(id uint64, preload ...string) (*models.Post, error) {
	var post models.Post
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&post, id).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// List retrieves posts with filtering and pagination
func (r *GormPostRepository) List(filter PostFilter) ([]models.Post, int64, error) {
	var posts []models.Post

	query := r.db.Model(&models.Post{})

	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}
	if filter.ReviewStatus != nil {
		query = query.Where("review_status = ?", *filter.ReviewStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("date_created DESC")
	if filter.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}))
	}

	if err := listQuery.Preload("Tags").Preload("DefaultImage").Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Update updates a post
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// UpdateReviewStatus writes only the moderation columns, leaving the post's
// relations untouched.
func (r *GormPostRepository) UpdateReviewStatus(post *models.Post) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"review_status":  post.ReviewStatus,
			"date_published": post.DatePublished,
		}).Error
}
