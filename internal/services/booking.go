package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"movie-booking-platform/internal/models"
)

// AddToCartRequest is a seat selection for one showing.
type AddToCartRequest struct {
	MovieID string   `json:"movieId"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Seats   []string `json:"seats"`
}

// BookingService builds seat maps and priced cart items for catalog movies.
type BookingService struct {
	catalog      MovieCatalog
	pricePerSeat float64
	newRand      func() *rand.Rand
}

func NewBookingService(catalog MovieCatalog, pricePerSeat float64) *BookingService {
	return &BookingService{
		catalog:      catalog,
		pricePerSeat: pricePerSeat,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// SeatMap returns a simulated hall for a showing of the movie.
func (s *BookingService) SeatMap(ctx context.Context, movieID, date, showTime string) (*models.SeatMap, error) {
	id, err := parseMovieID(movieID)
	if err != nil {
		return nil, err
	}
	if err := validateShowing(date, showTime); err != nil {
		return nil, err
	}
	if _, err := s.catalog.Detail(ctx, id); err != nil {
		return nil, err
	}

	seatMap := models.NewSeatMap(movieID, date, showTime, s.pricePerSeat, s.newRand())
	return &seatMap, nil
}

// NewCartItem validates the selection and prices it at pricePerSeat per seat.
// Title and poster come from the catalog.
func (s *BookingService) NewCartItem(ctx context.Context, req AddToCartRequest) (models.CartItem, error) {
	id, err := parseMovieID(req.MovieID)
	if err != nil {
		return models.CartItem{}, err
	}
	if err := validateShowing(req.Date, req.Time); err != nil {
		return models.CartItem{}, err
	}
	seats, err := normalizeSeats(req.Seats)
	if err != nil {
		return models.CartItem{}, err
	}

	movie, err := s.catalog.Detail(ctx, id)
	if err != nil {
		return models.CartItem{}, err
	}

	return models.CartItem{
		ID:         models.CartItemID(movie.ID, req.Date, req.Time, seats),
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		Date:       req.Date,
		Time:       req.Time,
		Seats:      seats,
		Price:      float64(len(seats)) * s.pricePerSeat,
		PosterURL:  movie.Poster,
	}, nil
}

func parseMovieID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("movie id %q must be a positive number: %w", raw, models.ErrInvalidInput)
	}
	return id, nil
}

func validateShowing(date, showTime string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("date %q must use YYYY-MM-DD: %w", date, models.ErrInvalidInput)
	}
	if !slices.Contains(models.DailyShowTimes, showTime) {
		return fmt.Errorf("no showing at %q: %w", showTime, models.ErrInvalidInput)
	}
	return nil
}

// normalizeSeats upper-cases ids and drops repeats, keeping selection order.
func normalizeSeats(seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, fmt.Errorf("select at least one seat: %w", models.ErrInvalidInput)
	}
	out := make([]string, 0, len(seats))
	for _, seat := range seats {
		seat = strings.ToUpper(strings.TrimSpace(seat))
		if !models.ValidSeat(seat) {
			return nil, fmt.Errorf("unknown seat %q: %w", seat, models.ErrInvalidInput)
		}
		if !slices.Contains(out, seat) {
			out = append(out, seat)
		}
	}
	return out, nil
}
