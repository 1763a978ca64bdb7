package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"blogapi/internal/auth"
	"blogapi/internal/constants"
	"blogapi/internal/database"
	apierrors "blogapi/internal/errors"
	"blogapi/internal/models"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid or expired token")
)

// RequireAuth validates the Bearer token and loads the authenticated user
// into the request context.
func RequireAuth(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, manager)
		if err != nil {
			apierrors.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid Bearer token is present and leaves
// the request anonymous otherwise. Listing visibility depends on the caller's
// role, so the list endpoint cannot simply reject anonymous requests.
func OptionalAuth(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if BearerToken(c) != "" {
			if user, err := authenticate(c, manager); err == nil {
				c.Set(constants.ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, or returns
// the empty string.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func authenticate(c *gin.Context, manager *auth.Manager) (*models.User, error) {
	token := BearerToken(c)
	if token == "" {
		return nil, errMissingToken
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		logrus.WithError(err).Debug("failed to parse bearer token")
		return nil, errInvalidToken
	}

	var user models.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user")
		}
		return nil, errInvalidToken
	}

	return &user, nil
}

// CurrentUser returns the authenticated user from the context, or nil for an
// anonymous request.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
