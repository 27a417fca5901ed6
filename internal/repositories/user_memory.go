package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"movie-booking-platform/internal/models"
)

// MemoryUserRepository keeps the user directory in process memory. The
// server falls back to it when Postgres is unavailable.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return fmt.Errorf("user with email %s already exists: %w", user.Email, models.ErrDuplicateEntry)
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.Email] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrUserNotFound)
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.Email]
	if !ok {
		return fmt.Errorf("user %s: %w", user.Email, models.ErrUserNotFound)
	}

	stored.Name = user.Name
	stored.Avatar = user.Avatar
	stored.Favorites = slices.Clone(nonNil(user.Favorites))
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryUserRepository) AddTickets(_ context.Context, email string, tickets []models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[email]
	if !ok {
		return fmt.Errorf("user %s: %w", email, models.ErrUserNotFound)
	}
	for _, ticket := range tickets {
		ticket.Seats = slices.Clone(ticket.Seats)
		stored.Tickets = append(stored.Tickets, ticket)
	}
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.Favorites = slices.Clone(nonNil(user.Favorites))
	clone.Tickets = make([]models.Ticket, len(user.Tickets))
	for i, ticket := range user.Tickets {
		ticket.Seats = slices.Clone(ticket.Seats)
		clone.Tickets[i] = ticket
	}
	return &clone
}
