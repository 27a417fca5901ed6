package models

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentPayPal   PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentTransfer, PaymentPayPal:
		return true
	}
	return false
}

// CheckoutRequest is the contact and payment form submitted at checkout.
type CheckoutRequest struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CardName      string        `json:"cardName"`
	CardNumber    string        `json:"cardNumber"`
	CardExpiry    string        `json:"cardExpiry"`
	CardCVC       string        `json:"cardCvc"`
}

func (r *CheckoutRequest) Validate() error {
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentCard
	}
	if !r.PaymentMethod.Valid() {
		return newValidationError("paymentMethod", "payment method must be card, transfer or paypal")
	}
	if strings.TrimSpace(r.Name) == "" {
		return newValidationError("name", "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return newValidationError("email", "email is required")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return newValidationError("phone", "phone is required")
	}
	if r.PaymentMethod != PaymentCard {
		return nil
	}
	if strings.TrimSpace(r.CardName) == "" || strings.TrimSpace(r.CardNumber) == "" ||
		strings.TrimSpace(r.CardExpiry) == "" || strings.TrimSpace(r.CardCVC) == "" {
		return newValidationError("card", "card name, number, expiry and cvc are required")
	}
	return nil
}

// CheckoutResult is returned after a successful checkout.
type CheckoutResult struct {
	Tickets     []Ticket  `json:"tickets"`
	Subtotal    float64   `json:"subtotal"`
	ServiceFee  float64   `json:"serviceFee"`
	Total       float64   `json:"total"`
	PaymentID   string    `json:"paymentId"`
	CompletedAt time.Time `json:"completedAt"`
}
