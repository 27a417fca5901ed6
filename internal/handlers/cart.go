package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

// CartHandler manages the visitor's cart. It works without a login.
type CartHandler struct {
	carts    services.CartServiceInterface
	booking  *services.BookingService
	sessions *middleware.SessionManager
}

func NewCartHandler(carts services.CartServiceInterface, booking *services.BookingService, sessions *middleware.SessionManager) *CartHandler {
	return &CartHandler{carts: carts, booking: booking, sessions: sessions}
}

type cartResponse struct {
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return cartResponse{Items: items, Total: cart.Total(), ItemCount: cart.ItemCount()}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartResponse(h.carts.GetCart(h.sessions.State(w, r))))
}

// AddItem handles POST /api/cart/items. A selection with the same movie,
// showing and seats replaces the existing item.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req services.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	item, err := h.booking.NewCartItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cart, err := h.carts.AddItem(h.sessions.State(w, r), item)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

// RemoveItem handles DELETE /api/cart/items/{id}. Unknown ids are ignored.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteJSONError(w, http.StatusBadRequest, "Parámetros inválidos")
		return
	}

	cart, err := h.carts.RemoveItem(h.sessions.State(w, r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.ClearCart(h.sessions.State(w, r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(&models.Cart{}))
}
