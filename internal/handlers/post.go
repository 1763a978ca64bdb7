package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blogapi/internal/dto"
	apierrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/services"
	"blogapi/internal/utils"
)

// PostHandler coordinates post-related HTTP handlers.
type PostHandler struct {
	postService  *services.PostService
	imageService *services.ImageService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, imageService *services.ImageService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		imageService: imageService,
	}
}

// List returns the posts visible to the caller. Redactors and staff see
// their own posts, everyone else sees only approved ones.
func (h *PostHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	user := middleware.CurrentUser(c)

	posts, total, err := h.postService.ListPosts(user, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list posts")
		return
	}

	items := make([]dto.PostListItemDTO, len(posts))
	for i, post := range posts {
		items[i] = dto.ToPostListItemDTO(post, h.imageService.PublicURL)
	}

	c.JSON(http.StatusOK, dto.PostListResponse{
		Posts:      items,
		Limit:      params.Limit,
		Offset:     params.Offset,
		TotalCount: total,
	})
}

// Create stores a new post for the authenticated user.
func (h *PostHandler) Create(c *gin.Context) {
	type CreateRequest struct {
		Title          string   `json:"title" binding:"max=50"`
		SubTitle       string   `json:"sub_title" binding:"max=100"`
		Description    string   `json:"description"`
		Tags           []string `json:"tags"`
		Images         []string `json:"images"`
		DefaultImageID *string  `json:"default_image"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.CreatePost(services.CreatePostInput{
		Title:          req.Title,
		SubTitle:       req.SubTitle,
		Description:    req.Description,
		Tags:           req.Tags,
		ImageIDs:       req.Images,
		DefaultImageID: req.DefaultImageID,
		Creator:        middleware.CurrentUser(c),
	})
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostDTO(*post, h.imageService.PublicURL))
}

// Get returns a single post with all of its relations.
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	post, err := h.postService.GetPost(postID)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostDTO(*post, h.imageService.PublicURL))
}

// Archive marks the caller's post as archived.
func (h *PostHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// Unarchive clears the archive flag on the caller's post.
func (h *PostHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *PostHandler) setArchived(c *gin.Context, archived bool) {
	post, ok := middleware.PostFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Post not found in context")
		return
	}

	if err := h.postService.SetArchived(&post, archived); err != nil {
		apierrors.InternalError(c, "Failed to update post")
		return
	}

	full, err := h.postService.GetPost(post.ID)
	if err != nil {
		respondPostError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPostDTO(*full, h.imageService.PublicURL))
}

// Review lets staff resolve a pending post.
func (h *PostHandler) Review(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || !user.IsStaff() {
		apierrors.Forbidden(c, "Staff access required")
		return
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	type ReviewRequest struct {
		ReviewStatus string `json:"review_status" binding:"required"`
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.Review(postID, models.ReviewStatus(req.ReviewStatus))
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostDTO(*post, h.imageService.PublicURL))
}

func respondPostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		apierrors.NotFound(c, "Post not found")
	case errors.Is(err, services.ErrImageNotFound),
		errors.Is(err, services.ErrImageAlreadyAttached),
		errors.Is(err, services.ErrDefaultImageNotListed),
		errors.Is(err, services.ErrTooManyTags),
		errors.Is(err, services.ErrTooManyImages),
		errors.Is(err, services.ErrTagNameTooLong),
		errors.Is(err, services.ErrInvalidReviewStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
