package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"blogapi/internal/models"
	"blogapi/internal/queue"
	"blogapi/internal/repository"
)

// CommentService handles anonymous comments on posts.
type CommentService struct {
	commentRepo   repository.CommentRepository
	postRepo      repository.PostRepository
	publisher     queue.Publisher
	publicBaseURL string
}

// NewCommentService creates a new CommentService. The publisher may be
// nil, in which case no notification emails are enqueued.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, publisher queue.Publisher, publicBaseURL string) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		publisher:     publisher,
		publicBaseURL: publicBaseURL,
	}
}

// CreateCommentInput represents a new comment on a post.
type CreateCommentInput struct {
	PostID uint64
	Name   string
	Email  string
	Text   string
}

// CreateComment stores the comment and notifies the post author.
func (s *CommentService) CreateComment(input CreateCommentInput) (*models.Comment, error) {
	post, err := s.postRepo.FindByID(input.PostID, "CreatedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	comment := &models.Comment{
		PostID: post.ID,
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.ToLower(strings.TrimSpace(input.Email)),
		Text:   input.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.enqueueNewCommentEmail(post)

	return comment, nil
}

// enqueueNewCommentEmail notifies the post author about a fresh comment.
// Failures are logged and never fail the comment itself.
func (s *CommentService) enqueueNewCommentEmail(post *models.Post) {
	if s.publisher == nil || post.CreatedBy == nil {
		return
	}
	task := queue.Task{
		Handler: queue.TaskSendNewCommentEmail,
		Args: map[string]string{
			"email":     post.CreatedBy.Email,
			"post_link": fmt.Sprintf("%s/api/v1/posts/%d", strings.TrimRight(s.publicBaseURL, "/"), post.ID),
		},
	}
	if err := s.publisher.Publish(task); err != nil {
		logrus.WithError(err).WithField("post_id", post.ID).Error("failed to enqueue comment notification")
	}
}
