package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"blogapi/internal/constants"
	"blogapi/internal/database"
	apierrors "blogapi/internal/errors"
	"blogapi/internal/models"
)

// RequirePostOwner checks that the authenticated user owns the post named in
// the URL and stores it in the context. A post owned by someone else is
// reported as not found rather than forbidden, to avoid leaking that it
// exists.
func RequirePostOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		postIDStr := c.Param("id")
		postID, err := strconv.ParseUint(postIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid post ID")
			c.Abort()
			return
		}

		user := CurrentUser(c)
		if user == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var post models.Post
		if err := database.GetDB().First(&post, postID).Error; err != nil {
			apierrors.NotFound(c, "Post not found")
			c.Abort()
			return
		}

		if post.CreatedByID == nil || *post.CreatedByID != user.ID {
			apierrors.NotFound(c, "Post not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPost, post)
		c.Next()
	}
}

// PostFromContext returns the post stored by RequirePostOwner.
func PostFromContext(c *gin.Context) (models.Post, bool) {
	value, exists := c.Get(constants.ContextKeyPost)
	if !exists {
		return models.Post{}, false
	}
	post, ok := value.(models.Post)
	return post, ok
}
