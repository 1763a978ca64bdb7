package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"blogapi/internal/auth"
	"blogapi/internal/database"
	"blogapi/internal/dto"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	jwtManager  *auth.Manager
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	database.SetDB(db)

	jwtManager, err := auth.NewManager("test-secret", "blogapi-test", time.Hour)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, nil)
	handler := NewAuthHandler(authService, jwtManager)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		jwtManager:  jwtManager,
	}
}

func authTestRouter(env authTestEnv) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/register", env.handler.Register)
	r.POST("/api/v1/login", env.handler.Login)
	r.POST("/api/v1/token/refresh", env.handler.RefreshToken)
	r.POST("/api/v1/token/verify", env.handler.VerifyToken)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	w := postJSON(t, r, "/api/v1/register", map[string]string{
		"email":            "Reader@Example.com",
		"first_name":       "Rita",
		"last_name":        "Reader",
		"password":         "supersecret",
		"password_confirm": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.NotNil(t, response.User)
	require.Equal(t, "reader@example.com", response.User.Email)
	require.Equal(t, "client", response.User.UserType)
	require.NotNil(t, response.User.RegType)
	require.Equal(t, "user", *response.User.RegType)
}

func TestAuthHandler_Register_RedactorRole(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	w := postJSON(t, r, "/api/v1/register", map[string]string{
		"email":            "writer@example.com",
		"password":         "supersecret",
		"password_confirm": "supersecret",
		"reg_type":         "redactor",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.User)
	require.NotNil(t, response.User.RegType)
	require.Equal(t, "redactor", *response.User.RegType)
}

func TestAuthHandler_Register_UnknownRegTypeCoerced(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	w := postJSON(t, r, "/api/v1/register", map[string]string{
		"email":            "odd@example.com",
		"password":         "supersecret",
		"password_confirm": "supersecret",
		"reg_type":         "administrator",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.User)
	require.NotNil(t, response.User.RegType)
	require.Equal(t, "user", *response.User.RegType)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	payload := map[string]string{
		"email":            "taken@example.com",
		"password":         "supersecret",
		"password_confirm": "supersecret",
	}
	require.Equal(t, http.StatusOK, postJSON(t, r, "/api/v1/register", payload).Code)

	// Same address with different casing still collides.
	payload["email"] = "Taken@Example.com"
	require.Equal(t, http.StatusConflict, postJSON(t, r, "/api/v1/register", payload).Code)
}

func TestAuthHandler_Register_PasswordValidation(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	w := postJSON(t, r, "/api/v1/register", map[string]string{
		"email":            "short@example.com",
		"password":         "short",
		"password_confirm": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/v1/register", map[string]string{
		"email":            "mismatch@example.com",
		"password":         "supersecret",
		"password_confirm": "differentsecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	_, err := env.authService.Register(services.RegisterInput{
		Email:           "existing@example.com",
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, r, "/api/v1/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.NotNil(t, response.User)
	require.Equal(t, "existing@example.com", response.User.Email)

	claims, err := env.jwtManager.ParseToken(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, claims.UserID)

	// Logging in records the moment.
	var user models.User
	require.NoError(t, env.db.Where("email = ?", "existing@example.com").First(&user).Error)
	require.NotNil(t, user.LastLogin)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	_, err := env.authService.Register(services.RegisterInput{
		Email:           "existing@example.com",
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, r, "/api/v1/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrongsecret",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	user, err := env.authService.Register(services.RegisterInput{
		Email:           "existing@example.com",
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
	})
	require.NoError(t, err)

	token, _, err := env.jwtManager.GenerateToken(user)
	require.NoError(t, err)

	w := postJSON(t, r, "/api/v1/token/refresh", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)

	claims, err := env.jwtManager.ParseToken(response.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authTestRouter(env)

	user, err := env.authService.Register(services.RegisterInput{
		Email:           "existing@example.com",
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
	})
	require.NoError(t, err)

	token, _, err := env.jwtManager.GenerateToken(user)
	require.NoError(t, err)

	w := postJSON(t, r, "/api/v1/token/verify", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)

	w = postJSON(t, r, "/api/v1/token/verify", map[string]string{"token": "not-a-token"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
