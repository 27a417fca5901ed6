package handlers

import (
	"context"
	"net/http"

	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

// Checkouter completes a purchase for the visitor.
type Checkouter interface {
	Checkout(ctx context.Context, state services.StateStore, req models.CheckoutRequest) (*models.CheckoutResult, error)
}

type CheckoutHandler struct {
	checkout Checkouter
	sessions *middleware.SessionManager
}

func NewCheckoutHandler(checkout Checkouter, sessions *middleware.SessionManager) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, sessions: sessions}
}

// Checkout handles POST /api/checkout. The cart is only cleared on success.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), h.sessions.State(w, r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
