package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/models"
)

// CheckoutService turns the visitor's cart into tickets for the current user.
type CheckoutService struct {
	auth     AuthServiceInterface
	carts    CartServiceInterface
	payments PaymentService
	config   config.CheckoutConfig
	now      func() time.Time
}

func NewCheckoutService(auth AuthServiceInterface, carts CartServiceInterface, payments PaymentService, cfg config.CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		auth:     auth,
		carts:    carts,
		payments: payments,
		config:   cfg,
		now:      time.Now,
	}
}

// Checkout charges the cart total plus the service fee, issues one ticket
// per cart item, stores them on the user and empties the cart. On any
// failure the cart is left untouched.
func (s *CheckoutService) Checkout(ctx context.Context, state StateStore, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	user, err := s.auth.CurrentUser(ctx, state)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("checkout requires a logged in user: %w", models.ErrUnauthorized)
	}

	cart := s.carts.GetCart(state)
	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	subtotal := cart.Total()
	total := subtotal + s.config.ServiceFee

	payment, err := s.payments.ProcessPayment(ctx, total, req.PaymentMethod, PaymentBillingInfo{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CardLast4: last4(req.CardNumber),
	})
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	now := s.now()
	tickets := make([]models.Ticket, 0, cart.ItemCount())
	for _, item := range cart.Items {
		tickets = append(tickets, models.Ticket{
			ID:         uuid.NewString(),
			MovieID:    item.MovieID,
			MovieTitle: item.MovieTitle,
			Date:       item.Date,
			Time:       item.Time,
			Seats:      slices.Clone(item.Seats),
			Cinema:     s.config.Cinema,
			Hall:       s.config.Hall,
			Status:     models.TicketConfirmed,
			CreatedAt:  now,
		})
	}

	if _, err := s.auth.AddTickets(ctx, state, tickets); err != nil {
		log.Printf("Payment %s succeeded but tickets were not saved: %v", payment.PaymentID, err)
		return nil, err
	}

	if err := s.carts.ClearCart(state); err != nil {
		log.Printf("Error clearing cart after payment %s: %v", payment.PaymentID, err)
	}

	log.Printf("Checkout completed for %s: %d tickets, total %.2f", user.Email, len(tickets), total)
	return &models.CheckoutResult{
		Tickets:     tickets,
		Subtotal:    subtotal,
		ServiceFee:  s.config.ServiceFee,
		Total:       total,
		PaymentID:   payment.PaymentID,
		CompletedAt: now,
	}, nil
}

func last4(number string) string {
	digits := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		if number[i] >= '0' && number[i] <= '9' {
			digits = append(digits, number[i])
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
