package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/models"
)

// MockPaymentProcessor is a mock implementation of PaymentService
type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) ProcessPayment(ctx context.Context, amount float64, method models.PaymentMethod, billing PaymentBillingInfo) (*PaymentResult, error) {
	args := m.Called(ctx, amount, method, billing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentResult), args.Error(1)
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{PricePerSeat: 10, ServiceFee: 2, Cinema: "CineMax Centro", Hall: "Sala 3"}
}

func validCheckoutRequest() models.CheckoutRequest {
	return models.CheckoutRequest{
		Name: "Ana", Email: "ana@example.com", Phone: "600000000", PaymentMethod: models.PaymentCard,
		CardName: "ANA", CardNumber: "4242 4242 4242 4242", CardExpiry: "12/30", CardCVC: "123",
	}
}

type checkoutFixture struct {
	auth    *AuthService
	carts   *CartService
	state   *MemoryStateStore
	payment *MockPaymentProcessor
	service *CheckoutService
}

func newCheckoutFixture(t *testing.T, loggedIn bool) *checkoutFixture {
	t.Helper()
	auth, _ := newTestAuthService()
	f := &checkoutFixture{
		auth:    auth,
		carts:   NewCartService(),
		state:   NewMemoryStateStore(),
		payment: new(MockPaymentProcessor),
	}
	f.service = NewCheckoutService(f.auth, f.carts, f.payment, testCheckoutConfig())
	if loggedIn {
		_, err := auth.Login(context.Background(), f.state, models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)
	}
	return f
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	_, _ = f.carts.AddItem(f.state, cartItem("550-2026-10-19-19:30-A1,A2", 20))
	_, _ = f.carts.AddItem(f.state, cartItem("13-2026-10-20-22:00-C5", 10))

	f.payment.On("ProcessPayment", mock.Anything, 32.0, models.PaymentCard, mock.MatchedBy(func(b PaymentBillingInfo) bool {
		return b.Email == "ana@example.com" && b.CardLast4 == "4242"
	})).Return(&PaymentResult{PaymentID: "pay_1", Status: "success", Amount: 32}, nil)

	result, err := f.service.Checkout(ctx, f.state, validCheckoutRequest())
	require.NoError(t, err)

	assert.Equal(t, 30.0, result.Subtotal)
	assert.Equal(t, 2.0, result.ServiceFee)
	assert.Equal(t, 32.0, result.Total)
	assert.Equal(t, "pay_1", result.PaymentID)
	require.Len(t, result.Tickets, 2)
	for _, ticket := range result.Tickets {
		assert.NotEmpty(t, ticket.ID)
		assert.Equal(t, "CineMax Centro", ticket.Cinema)
		assert.Equal(t, "Sala 3", ticket.Hall)
		assert.Equal(t, models.TicketConfirmed, ticket.Status)
	}

	assert.True(t, f.carts.GetCart(f.state).IsEmpty())
	user, err := f.auth.CurrentUser(ctx, f.state)
	require.NoError(t, err)
	assert.Len(t, user.Tickets, 2)
	f.payment.AssertExpectations(t)
}

func TestCheckoutService_RequiresUser(t *testing.T) {
	f := newCheckoutFixture(t, false)
	_, _ = f.carts.AddItem(f.state, cartItem("a", 10))

	_, err := f.service.Checkout(context.Background(), f.state, validCheckoutRequest())

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	f.payment.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_RejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.service.Checkout(context.Background(), f.state, validCheckoutRequest())

	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestCheckoutService_InvalidFormKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t, true)
	_, _ = f.carts.AddItem(f.state, cartItem("a", 10))
	req := validCheckoutRequest()
	req.CardCVC = ""

	_, err := f.service.Checkout(context.Background(), f.state, req)

	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, 1, f.carts.GetCart(f.state).ItemCount())
}

func TestCheckoutService_PaymentFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	_, _ = f.carts.AddItem(f.state, cartItem("a", 10))
	f.payment.On("ProcessPayment", mock.Anything, 12.0, models.PaymentCard, mock.Anything).
		Return(nil, errors.New("card declined"))

	_, err := f.service.Checkout(ctx, f.state, validCheckoutRequest())

	require.Error(t, err)
	assert.Equal(t, 1, f.carts.GetCart(f.state).ItemCount())
	user, err := f.auth.CurrentUser(ctx, f.state)
	require.NoError(t, err)
	assert.Empty(t, user.Tickets)
}

func TestMockPaymentService_WaitsAndApproves(t *testing.T) {
	var waited time.Duration
	service := NewMockPaymentService(2 * time.Second).WithSleep(func(ctx context.Context, d time.Duration) error {
		waited = d
		return nil
	})

	result, err := service.ProcessPayment(context.Background(), 32, models.PaymentPayPal, PaymentBillingInfo{Email: "ana@example.com"})

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, waited)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 32.0, result.Amount)
	assert.NotEmpty(t, result.TransactionID)
}

func TestMockPaymentService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockPaymentService(time.Minute).ProcessPayment(ctx, 10, models.PaymentCard, PaymentBillingInfo{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "4242", last4("4242 4242 4242 4242"))
	assert.Equal(t, "12", last4("12"))
	assert.Equal(t, "", last4(""))
}
