package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/utils"
)

// PaymentBillingInfo identifies the payer.
type PaymentBillingInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	// CardLast4 is kept for receipts; full card data is never stored.
	CardLast4 string `json:"card_last4,omitempty"`
}

// PaymentResult is the outcome of a payment attempt.
type PaymentResult struct {
	PaymentID     string               `json:"payment_id"`
	Status        string               `json:"status"`
	Amount        float64              `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	TransactionID string               `json:"transaction_id"`
	ProcessedAt   time.Time            `json:"processed_at"`
}

// MockPaymentService simulates a payment gateway: it waits for a fixed
// delay and then approves every charge.
type MockPaymentService struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

func NewMockPaymentService(delay time.Duration) *MockPaymentService {
	return &MockPaymentService{delay: delay, sleep: sleepContext}
}

// WithSleep replaces the simulated processing wait.
func (s *MockPaymentService) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *MockPaymentService {
	s.sleep = sleep
	return s
}

func (s *MockPaymentService) ProcessPayment(ctx context.Context, amount float64, method models.PaymentMethod, billing PaymentBillingInfo) (*PaymentResult, error) {
	log.Printf("Mock Payment: Processing payment of %.2f by %s for %s", amount, method, billing.Email)

	if err := s.sleep(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("payment interrupted: %w", err)
	}

	token, err := utils.GenerateSecureToken(12)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction id: %w", err)
	}

	now := time.Now()
	return &PaymentResult{
		PaymentID:     fmt.Sprintf("mock_pay_%d", now.UnixNano()),
		Status:        "success",
		Amount:        amount,
		Method:        method,
		TransactionID: "txn_" + token,
		ProcessedAt:   now,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
