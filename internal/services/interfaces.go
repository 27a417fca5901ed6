package services

import (
	"context"
	"encoding/json"

	"movie-booking-platform/internal/models"
)

// UserRepository is the user directory, keyed by email.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AddTickets(ctx context.Context, email string, tickets []models.Ticket) error
	List(ctx context.Context) ([]*models.User, error)
}

// PayloadFetcher returns provider JSON, possibly from cache.
type PayloadFetcher interface {
	Fetch(ctx context.Context, key, url string) (json.RawMessage, error)
}

// MovieProvider reads raw provider payloads.
type MovieProvider interface {
	Listing(ctx context.Context, category models.ListingCategory) (*models.ProviderMoviePage, error)
	Search(ctx context.Context, query string) (*models.ProviderMoviePage, error)
	Detail(ctx context.Context, id int64) (*models.ProviderMovieDetail, error)
}

// MovieCatalog serves movies in display form.
type MovieCatalog interface {
	Listing(ctx context.Context, category models.ListingCategory) (*models.MoviePage, error)
	Search(ctx context.Context, query string) (*models.MoviePage, error)
	Detail(ctx context.Context, id int64) (*models.MovieDetail, error)
}

// PaymentService charges a checkout.
type PaymentService interface {
	ProcessPayment(ctx context.Context, amount float64, method models.PaymentMethod, billing PaymentBillingInfo) (*PaymentResult, error)
}

// AuthServiceInterface is the auth state container as seen by handlers.
type AuthServiceInterface interface {
	Register(ctx context.Context, state StateStore, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, state StateStore, req models.LoginRequest) (*models.User, error)
	Logout(state StateStore) error
	CurrentUser(ctx context.Context, state StateStore) (*models.User, error)
	AddToFavorites(ctx context.Context, state StateStore, movieID string) (*models.User, error)
	RemoveFromFavorites(ctx context.Context, state StateStore, movieID string) (*models.User, error)
	IsFavorite(ctx context.Context, state StateStore, movieID string) (bool, error)
	UpdateProfile(ctx context.Context, state StateStore, update models.ProfileUpdate) (*models.User, error)
	AddTickets(ctx context.Context, state StateStore, tickets []models.Ticket) (*models.User, error)
}

// CartServiceInterface is the cart state container as seen by handlers.
type CartServiceInterface interface {
	GetCart(state StateStore) *models.Cart
	AddItem(state StateStore, item models.CartItem) (*models.Cart, error)
	RemoveItem(state StateStore, id string) (*models.Cart, error)
	ClearCart(state StateStore) error
}
