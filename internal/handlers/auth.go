package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
	"blogapi/internal/constants"
	"blogapi/internal/dto"
	apierrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	jwtManager  *auth.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
	}
}

// Register creates a new client account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email           string `json:"email" binding:"required,email"`
		FirstName       string `json:"first_name" binding:"max=30"`
		LastName        string `json:"last_name" binding:"max=30"`
		Password        string `json:"password" binding:"required"`
		PasswordConfirm string `json:"password_confirm" binding:"required"`
		RegType         string `json:"reg_type"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		RegType:         req.RegType,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &userDTO,
	})
}

// Login authenticates a user and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &userDTO,
	})
}

// RefreshToken exchanges a still-valid token for a new one.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, ok := tokenFromRequest(c)
	if !ok {
		apierrors.BadRequest(c, "Token is required")
		return
	}

	refreshed, expiresAt, err := h.jwtManager.RefreshToken(token)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid or expired token")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     refreshed,
		ExpiresAt: expiresAt,
	})
}

// VerifyToken checks a token and returns the user it belongs to.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	token, ok := tokenFromRequest(c)
	if !ok {
		apierrors.BadRequest(c, "Token is required")
		return
	}

	claims, err := h.jwtManager.ParseToken(token)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid or expired token")
		return
	}

	user, err := h.authService.GetUser(claims.UserID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// tokenFromRequest reads the token from the JSON body, falling back to the
// Authorization header.
func tokenFromRequest(c *gin.Context) (string, bool) {
	type TokenRequest struct {
		Token string `json:"token"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Token != "" {
		return req.Token, true
	}
	if token := middleware.BearerToken(c); token != "" {
		return token, true
	}
	return "", false
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordMismatch):
		apierrors.BadRequest(c, "Passwords do not match")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
