package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/utils"
)

// AuthService keeps the current-user pointer in the visitor's state and the
// user records in the directory. Passwords are hashed on creation but never
// checked: login is simulated.
type AuthService struct {
	userRepo UserRepository
	hasher   *utils.PasswordHasher
}

func NewAuthService(userRepo UserRepository, hasher *utils.PasswordHasher) *AuthService {
	if hasher == nil {
		hasher = utils.DefaultPasswordHasher()
	}
	return &AuthService{userRepo: userRepo, hasher: hasher}
}

// Register creates a user and makes it current.
func (s *AuthService) Register(ctx context.Context, state StateStore, req models.RegisterRequest) (*models.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("email %s is already registered: %w", req.Email, models.ErrDuplicateEntry)
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user, err := s.newUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.setCurrent(state, user.Email); err != nil {
		return nil, err
	}
	log.Printf("Registered user %s", user.Email)
	return user, nil
}

// Login makes the user with the given email current. Unknown emails are
// provisioned on the fly, named after the email's local part.
func (s *AuthService) Login(ctx context.Context, state StateStore, req models.LoginRequest) (*models.User, error) {
	// the name keeps the casing the visitor typed; only the key is lowercased
	name := models.LocalPart(strings.TrimSpace(req.Email))
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		user, err = s.provision(ctx, name, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.setCurrent(state, user.Email); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the pointer. The user record stays in the directory.
func (s *AuthService) Logout(state StateStore) error {
	if err := state.Remove(CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

// CurrentUser resolves the pointer. It returns nil without error when no one
// is logged in. A pointer to a missing or unreadable record is cleared.
func (s *AuthService) CurrentUser(ctx context.Context, state StateStore) (*models.User, error) {
	var email string
	found, err := state.Load(CurrentUserKey, &email)
	if err != nil {
		log.Printf("Discarding unreadable current user pointer: %v", err)
		_ = state.Remove(CurrentUserKey)
		return nil, nil
	}
	if !found || email == "" {
		return nil, nil
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		log.Printf("Current user %s no longer exists, clearing pointer", email)
		_ = state.Remove(CurrentUserKey)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return user, nil
}

// AddToFavorites is a no-op returning nil when no one is logged in.
func (s *AuthService) AddToFavorites(ctx context.Context, state StateStore, movieID string) (*models.User, error) {
	return s.mutateCurrent(ctx, state, func(u *models.User) bool {
		return u.AddFavorite(movieID)
	})
}

// RemoveFromFavorites is a no-op returning nil when no one is logged in.
func (s *AuthService) RemoveFromFavorites(ctx context.Context, state StateStore, movieID string) (*models.User, error) {
	return s.mutateCurrent(ctx, state, func(u *models.User) bool {
		return u.RemoveFavorite(movieID)
	})
}

func (s *AuthService) IsFavorite(ctx context.Context, state StateStore, movieID string) (bool, error) {
	user, err := s.CurrentUser(ctx, state)
	if err != nil || user == nil {
		return false, err
	}
	return user.IsFavorite(movieID), nil
}

// UpdateProfile merges name and avatar into the current user. The email is
// the directory key and cannot be changed here.
func (s *AuthService) UpdateProfile(ctx context.Context, state StateStore, update models.ProfileUpdate) (*models.User, error) {
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.mutateCurrent(ctx, state, func(u *models.User) bool {
		update.Apply(u)
		return true
	})
}

// AddTickets appends tickets to the current user.
func (s *AuthService) AddTickets(ctx context.Context, state StateStore, tickets []models.Ticket) (*models.User, error) {
	user, err := s.CurrentUser(ctx, state)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	if err := s.userRepo.AddTickets(ctx, user.Email, tickets); err != nil {
		return nil, fmt.Errorf("failed to save tickets: %w", err)
	}
	user.Tickets = append(user.Tickets, tickets...)
	return user, nil
}

func (s *AuthService) mutateCurrent(ctx context.Context, state StateStore, mutate func(*models.User) bool) (*models.User, error) {
	user, err := s.CurrentUser(ctx, state)
	if err != nil || user == nil {
		return nil, err
	}
	if !mutate(user) {
		return user, nil
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) provision(ctx context.Context, name string, req models.LoginRequest) (*models.User, error) {
	user, err := s.newUser(name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, models.ErrDuplicateEntry) {
		// created concurrently by another request
		return s.userRepo.GetByEmail(ctx, req.Email)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Provisioned user %s on first login", user.Email)
	return user, nil
}

func (s *AuthService) newUser(name, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Favorites:    []string{},
		Tickets:      []models.Ticket{},
		PasswordHash: hash,
	}, nil
}

func (s *AuthService) setCurrent(state StateStore, email string) error {
	if err := state.Save(CurrentUserKey, email); err != nil {
		return fmt.Errorf("failed to set current user: %w", err)
	}
	return nil
}
