package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

// ProfileHandler serves the logged in user's profile, tickets and
// favorites. Routes are mounted behind RequireAuth.
type ProfileHandler struct {
	authService services.AuthServiceInterface
	sessions    *middleware.SessionManager
}

func NewProfileHandler(authService services.AuthServiceInterface, sessions *middleware.SessionManager) *ProfileHandler {
	return &ProfileHandler{authService: authService, sessions: sessions}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{User: middleware.GetUserFromContext(r.Context())})
}

// Update handles PATCH /api/profile. Only name and avatar change.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), h.sessions.State(w, r), update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *ProfileHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	tickets := middleware.GetUserFromContext(r.Context()).Tickets
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

func (h *ProfileHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, favoritesResponse(middleware.GetUserFromContext(r.Context())))
}

// IsFavorite handles GET /api/profile/favorites/{movieId}.
func (h *ProfileHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}
	favorite, err := h.authService.IsFavorite(r.Context(), h.sessions.State(w, r), movieID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movieId": movieID, "favorite": favorite})
}

func (h *ProfileHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}
	h.respondFavorites(w, r, h.authService.AddToFavorites, movieID)
}

func (h *ProfileHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}
	h.respondFavorites(w, r, h.authService.RemoveFromFavorites, movieID)
}

type favoritesMutation func(ctx context.Context, state services.StateStore, movieID string) (*models.User, error)

func (h *ProfileHandler) respondFavorites(w http.ResponseWriter, r *http.Request, mutate favoritesMutation, movieID string) {
	user, err := mutate(r.Context(), h.sessions.State(w, r), movieID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if user == nil {
		writeServiceError(w, models.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse(user))
}

func favoritesResponse(user *models.User) map[string]any {
	favorites := user.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return map[string]any{"favorites": favorites}
}

// movieIDParam reads the escaped {movieId} route parameter.
func movieIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	movieID, err := url.PathUnescape(chi.URLParam(r, "movieId"))
	if err != nil || movieID == "" {
		middleware.WriteJSONError(w, http.StatusBadRequest, "Parámetros inválidos")
		return "", false
	}
	return movieID, true
}
