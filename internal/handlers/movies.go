package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

// MovieHandler serves the catalog and seat maps.
type MovieHandler struct {
	movies  *services.MovieService
	booking *services.BookingService
}

func NewMovieHandler(movies *services.MovieService, booking *services.BookingService) *MovieHandler {
	return &MovieHandler{movies: movies, booking: booking}
}

// Movies handles GET /api/movies?type=...&id=...&query=...
func (h *MovieHandler) Movies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := q.Get("type")

	switch {
	case models.ListingCategory(kind).Valid():
		page, err := h.movies.Listing(r.Context(), models.ListingCategory(kind))
		if err != nil {
			h.catalogError(w, err, "Error al obtener datos de películas")
			return
		}
		writeJSON(w, http.StatusOK, page)

	case kind == "search" && strings.TrimSpace(q.Get("query")) != "":
		page, err := h.movies.Search(r.Context(), q.Get("query"))
		if err != nil {
			h.catalogError(w, err, "Error al obtener datos de películas")
			return
		}
		writeJSON(w, http.StatusOK, page)

	case kind == "detail" && q.Get("id") != "":
		id, err := strconv.ParseInt(q.Get("id"), 10, 64)
		if err != nil || id <= 0 {
			middleware.WriteJSONError(w, http.StatusBadRequest, "Parámetros inválidos")
			return
		}
		detail, err := h.movies.Detail(r.Context(), id)
		if err != nil {
			h.catalogError(w, err, "Error al obtener detalles de la película")
			return
		}
		writeJSON(w, http.StatusOK, detail)

	default:
		middleware.WriteJSONError(w, http.StatusBadRequest, "Parámetros inválidos")
	}
}

func (h *MovieHandler) catalogError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, models.ErrMovieNotFound) {
		middleware.WriteJSONError(w, http.StatusNotFound, "Película no encontrada")
		return
	}
	log.Printf("%s: %v", message, err)
	middleware.WriteJSONError(w, http.StatusInternalServerError, message)
}

// Home handles GET /api/home. Failing sections come back empty.
func (h *MovieHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.movies.Home(r.Context()))
}

// Seats handles GET /api/movies/{id}/seats?date=...&time=...
func (h *MovieHandler) Seats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seatMap, err := h.booking.SeatMap(r.Context(), chi.URLParam(r, "id"), q.Get("date"), q.Get("time"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seatMap)
}
