package handlers

import (
	"net/http"

	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

// AuthHandler exposes the simulated login flow.
type AuthHandler struct {
	authService services.AuthServiceInterface
	sessions    *middleware.SessionManager
}

func NewAuthHandler(authService services.AuthServiceInterface, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type userResponse struct {
	User *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), h.sessions.State(w, r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

// Login handles POST /api/auth/login. Any well-formed email logs in.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), h.sessions.State(w, r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// Logout handles POST /api/auth/logout. The cart is kept.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(h.sessions.State(w, r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me. Anonymous visitors get a null user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{User: middleware.GetUserFromContext(r.Context())})
}
