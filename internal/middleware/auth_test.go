package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/repositories"
	"movie-booking-platform/internal/services"
	"movie-booking-platform/internal/utils"
)

func newTestAuth(t *testing.T) (*AuthMiddleware, *SessionManager, *services.AuthService) {
	t.Helper()
	hasher := &utils.PasswordHasher{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	authService := services.NewAuthService(repositories.NewMemoryUserRepository(), hasher)
	sessions := newTestSessions(t)
	return NewAuthMiddleware(authService, sessions), sessions, authService
}

func TestAuthMiddleware_LoadUserAnonymous(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	var seen *models.User
	handler := auth.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, seen)
}

func TestAuthMiddleware_LoadUserFromSession(t *testing.T) {
	auth, sessions, authService := newTestAuth(t)

	loginRec := httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodPost, "/", nil)
	_, err := authService.Login(context.Background(), sessions.State(loginRec, loginReq), models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(loginRec, req)

	var seen *models.User
	handler := auth.LoadUser(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r.Context())
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "ana@example.com", seen.Email)
}

func TestAuthMiddleware_RequireAuthRejectsAnonymous(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	called := false
	handler := auth.LoadUser(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"error"`)
}
