package middleware

import (
	"context"
	"log"
	"net/http"

	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// AuthMiddleware resolves the current user from the visitor's session.
type AuthMiddleware struct {
	authService services.AuthServiceInterface
	sessions    *SessionManager
}

func NewAuthMiddleware(authService services.AuthServiceInterface, sessions *SessionManager) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		sessions:    sessions,
	}
}

// LoadUser adds the current user, if any, to the request context.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authService.CurrentUser(r.Context(), m.sessions.State(w, r))
		if err != nil {
			log.Printf("Error loading current user: %v", err)
		}
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth answers 401 unless LoadUser found a user.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			WriteJSONError(w, http.StatusUnauthorized, "Debes iniciar sesión")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the user stored by LoadUser, or nil.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
