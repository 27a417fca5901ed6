package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"movie-booking-platform/internal/cache"
	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/models"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("malformed request body: %w", models.ErrInvalidInput)
	}
	return nil
}

// writeServiceError maps a service error onto a status code. Unexpected
// errors are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		middleware.WriteJSONError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrEmptyCart):
		middleware.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrStateTooLarge):
		log.Printf("Session overflow: %v", err)
		middleware.WriteJSONError(w, http.StatusRequestEntityTooLarge, "El carrito es demasiado grande")
	case errors.Is(err, models.ErrDuplicateEntry):
		middleware.WriteJSONError(w, http.StatusConflict, "Este email ya está registrado")
	case errors.Is(err, models.ErrUnauthorized):
		middleware.WriteJSONError(w, http.StatusUnauthorized, "Debes iniciar sesión")
	case errors.Is(err, models.ErrMovieNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, "Película no encontrada")
	case errors.Is(err, models.ErrUserNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, "Usuario no encontrado")
	case errors.Is(err, cache.ErrUpstream):
		log.Printf("Upstream error: %v", err)
		middleware.WriteJSONError(w, http.StatusInternalServerError, "Error al obtener datos de películas")
	default:
		log.Printf("Internal error: %v", err)
		middleware.WriteJSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
