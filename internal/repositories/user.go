package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"movie-booking-platform/internal/models"
)

const uniqueViolation = "23505"

// UserRepository stores the user directory in Postgres.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A taken email yields models.ErrDuplicateEntry.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	favorites, err := json.Marshal(nonNil(user.Favorites))
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO users (id, email, name, avatar, password_hash, favorites, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, nullString(user.Avatar), user.PasswordHash, favorites, now, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, models.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	if len(user.Tickets) > 0 {
		return r.AddTickets(ctx, user.Email, user.Tickets)
	}
	return nil
}

// GetByEmail loads a user and their tickets.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, avatar, password_hash, favorites, created_at, updated_at
		FROM users
		WHERE email = $1`

	user := &models.User{}
	var avatar sql.NullString
	var favorites []byte

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&avatar,
		&user.PasswordHash,
		&favorites,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Avatar = avatar.String
	if err := json.Unmarshal(favorites, &user.Favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	user.Favorites = nonNil(user.Favorites)

	user.Tickets, err = r.ticketsFor(ctx, email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update persists name, avatar and favorites.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	favorites, err := json.Marshal(nonNil(user.Favorites))
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	now := time.Now()
	query := `
		UPDATE users
		SET name = $2, avatar = $3, favorites = $4, updated_at = $5
		WHERE email = $1`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.Name, nullString(user.Avatar), favorites, now)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", user.Email, models.ErrUserNotFound)
	}

	user.UpdatedAt = now
	return nil
}

// AddTickets appends tickets to the user in one transaction.
func (r *UserRepository) AddTickets(ctx context.Context, email string, tickets []models.Ticket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user %s: %w", email, models.ErrUserNotFound)
	}

	query := `
		INSERT INTO user_tickets (id, user_email, movie_id, movie_title, show_date, show_time, seats, cinema, hall, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, ticket := range tickets {
		seats, err := json.Marshal(nonNil(ticket.Seats))
		if err != nil {
			return fmt.Errorf("failed to encode seats: %w", err)
		}
		createdAt := ticket.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, query,
			ticket.ID, email, ticket.MovieID, ticket.MovieTitle, ticket.Date, ticket.Time,
			seats, ticket.Cinema, ticket.Hall, string(ticket.Status), createdAt); err != nil {
			return fmt.Errorf("failed to insert ticket %s: %w", ticket.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tickets: %w", err)
	}
	return nil
}

// List returns every user with their tickets, oldest first.
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT email FROM users ORDER BY created_at, email")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		emails = append(emails, email)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*models.User, 0, len(emails))
	for _, email := range emails {
		user, err := r.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) ticketsFor(ctx context.Context, email string) ([]models.Ticket, error) {
	query := `
		SELECT id, movie_id, movie_title, show_date, show_time, seats, cinema, hall, status, created_at
		FROM user_tickets
		WHERE user_email = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var ticket models.Ticket
		var seats []byte
		var status string
		if err := rows.Scan(&ticket.ID, &ticket.MovieID, &ticket.MovieTitle, &ticket.Date, &ticket.Time,
			&seats, &ticket.Cinema, &ticket.Hall, &status, &ticket.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		if err := json.Unmarshal(seats, &ticket.Seats); err != nil {
			return nil, fmt.Errorf("failed to decode seats: %w", err)
		}
		ticket.Status = models.TicketStatus(status)
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
