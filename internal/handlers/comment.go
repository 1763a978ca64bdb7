package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogapi/internal/dto"
	apierrors "blogapi/internal/errors"
	"blogapi/internal/services"
)

// CommentHandler coordinates comment-related HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create stores an anonymous comment on a post.
func (h *CommentHandler) Create(c *gin.Context) {
	type CreateRequest struct {
		PostID uint64 `json:"post" binding:"required"`
		Name   string `json:"name" binding:"required,max=42"`
		Email  string `json:"email" binding:"required,email,max=75"`
		Text   string `json:"text" binding:"required"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(services.CreateCommentInput{
		PostID: req.PostID,
		Name:   req.Name,
		Email:  req.Email,
		Text:   req.Text,
	})
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}
