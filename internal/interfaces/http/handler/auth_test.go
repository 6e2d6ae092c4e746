package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/agrimart/backend/internal/application/identity"
	"github.com/agrimart/backend/internal/domain/identity"
	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/agrimart/backend/internal/infrastructure/auth"
	"github.com/agrimart/backend/internal/infrastructure/config"
	"github.com/agrimart/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandlerTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars-long",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

type authHandlerFixture struct {
	handler    *AuthHandler
	userRepo   *MockUserRepository
	jwtService *auth.JWTService
	blacklist  *auth.InMemoryTokenBlacklist
}

func setupAuthHandler(t *testing.T) authHandlerFixture {
	t.Helper()
	userRepo := new(MockUserRepository)
	jwtService := newHandlerTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := identityapp.NewAuthService(userRepo, jwtService, blacklist, zap.NewNop())
	return authHandlerFixture{
		handler:    NewAuthHandler(service),
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

func newTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Ravi Kumar", "ravi@example.com", "secret123")
	require.NoError(t, err)
	return user
}

func TestAuthHandler_Register_Success(t *testing.T) {
	fx := setupAuthHandler(t)

	fx.userRepo.On("ExistsByEmail", mock.Anything, "ravi@example.com").Return(false, nil)
	fx.userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", fx.handler.Register)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)
	assert.Equal(t, "ravi@example.com", resp.Data.User.Email)
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	fx := setupAuthHandler(t)

	fx.userRepo.On("ExistsByEmail", mock.Anything, "ravi@example.com").Return(true, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", fx.handler.Register)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_EXISTS")
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	fx := setupAuthHandler(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", fx.handler.Register)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "abc",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	fx.userRepo.On("FindByEmail", mock.Anything, "ravi@example.com").Return(user, nil)
	fx.userRepo.On("Save", mock.Anything, user).Return(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", fx.handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "ravi@example.com",
		Password: "secret123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)

	// The issued token must round-trip through validation
	claims, err := fx.jwtService.ValidateAccessToken(resp.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	fx.userRepo.On("FindByEmail", mock.Anything, "ravi@example.com").Return(user, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", fx.handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "ravi@example.com",
		Password: "wrong-password",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	fx := setupAuthHandler(t)

	fx.userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", fx.handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Unknown email and wrong password are indistinguishable to the client
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	pair, err := fx.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	require.NoError(t, err)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/refresh", fx.handler.Refresh)

	body, _ := json.Marshal(identityapp.RefreshTokenRequest{RefreshToken: pair.RefreshToken})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	fx := setupAuthHandler(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/refresh", fx.handler.Refresh)

	body, _ := json.Marshal(identityapp.RefreshTokenRequest{RefreshToken: "not-a-token"})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_BlacklistsToken(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)
	pair, err := fx.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	require.NoError(t, err)

	claims, err := fx.jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Next()
	})
	router.POST("/auth/logout", fx.handler.Logout)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	blacklisted, err := fx.blacklist.IsBlacklisted(req.Context(), claims.ID)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestAuthHandler_Logout_NoClaims(t *testing.T) {
	fx := setupAuthHandler(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/logout", fx.handler.Logout)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me_Success(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	router := setupTestRouter(user.ID, "user")
	router.GET("/auth/me", fx.handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ravi@example.com")
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_Me_NotFound(t *testing.T) {
	fx := setupAuthHandler(t)

	userID := uuid.New()
	fx.userRepo.On("FindByID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter(userID, "user")
	router.GET("/auth/me", fx.handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_UpdateProfile_Success(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	fx.userRepo.On("Save", mock.Anything, user).Return(nil)

	router := setupTestRouter(user.ID, "user")
	router.PUT("/auth/profile", fx.handler.UpdateProfile)

	name := "Ravi K"
	phone := "9876543210"
	body, _ := json.Marshal(identityapp.UpdateProfileRequest{Name: &name, Phone: &phone})

	req := httptest.NewRequest(http.MethodPut, "/auth/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ravi K")
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	fx.userRepo.On("Save", mock.Anything, user).Return(nil)

	router := setupTestRouter(user.ID, "user")
	router.PUT("/auth/password", fx.handler.ChangePassword)

	body, _ := json.Marshal(identityapp.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "stronger-secret",
	})

	req := httptest.NewRequest(http.MethodPut, "/auth/password", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, user.VerifyPassword("stronger-secret"))
	fx.userRepo.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	fx := setupAuthHandler(t)

	user := newTestUser(t)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	router := setupTestRouter(user.ID, "user")
	router.PUT("/auth/password", fx.handler.ChangePassword)

	body, _ := json.Marshal(identityapp.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "stronger-secret",
	})

	req := httptest.NewRequest(http.MethodPut, "/auth/password", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_PASSWORD")
	fx.userRepo.AssertExpectations(t)
}
