package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"blogapi/internal/dto"
	apierrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/services"
)

// ImageHandler coordinates image upload HTTP handlers.
type ImageHandler struct {
	imageService  *services.ImageService
	maxUploadSize int64
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService *services.ImageService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{
		imageService:  imageService,
		maxUploadSize: maxUploadSize,
	}
}

// Upload stores a standalone image for later attachment to a post.
func (h *ImageHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "Image file is required")
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		apierrors.BadRequest(c, "Image is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.InternalError(c, "Failed to read image")
		return
	}

	image, err := h.imageService.Upload(c.Request.Context(), data, filepath.Ext(fileHeader.Filename), middleware.CurrentUser(c))
	if err != nil {
		apierrors.InternalError(c, "Failed to store image")
		return
	}

	c.JSON(http.StatusCreated, dto.ImageDTO{
		ID:  image.ID,
		URL: h.imageService.PublicURL(image),
	})
}
