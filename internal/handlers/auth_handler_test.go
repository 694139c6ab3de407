package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"healthtrack_backend/internal/config"
	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/internal/services"
	"healthtrack_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func (r *memRefreshTokenRepo) Create(_ *gorm.DB, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *memRefreshTokenRepo) FindByToken(_ *gorm.DB, tokenString string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenString]
	if !ok {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memRefreshTokenRepo) DeleteByToken(_ *gorm.DB, tokenString string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[tokenString]; !ok {
		return repositories.ErrRefreshTokenNotFound
	}
	delete(r.tokens, tokenString)
	return nil
}

func (r *memRefreshTokenRepo) DeleteByUserID(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *memRefreshTokenRepo) DeleteExpired(_ *gorm.DB) error { return nil }

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-jwt-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTLDays = 30
	config.AppConfig = cfg

	userRepo := &memUserRepo{users: map[string]*models.User{}}
	tokenRepo := &memRefreshTokenRepo{tokens: map[string]*models.RefreshToken{}}
	authService := services.NewAuthService(userRepo, tokenRepo)

	base := NewBaseHandler(validator.New())
	handler := NewAuthHandler(base, authService)

	router := gin.New()
	router.Use(middleware.DBMiddleware(nil))
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Amina",
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)

	w = postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken, "refresh must rotate the token")

	// The consumed token no longer refreshes.
	w = postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Amina",
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var registered dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	w = postJSON(router, "/api/v1/auth/logout", dto.LogoutRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

var _ repositories.RefreshTokenRepository = (*memRefreshTokenRepo)(nil)
