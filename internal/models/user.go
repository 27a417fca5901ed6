package models

import (
	"slices"
	"strings"
	"time"
)

const MinPasswordLength = 6

// User is an entry of the user directory. Email is its natural key.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	Favorites    []string  `json:"favorites"`
	Tickets      []Ticket  `json:"tickets"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is the payload of a registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload of a login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate holds the fields a user may change. Nil means unchanged.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return newValidationError("", "name, email and password are required")
	}
	if len(r.Password) < MinPasswordLength {
		return newValidationError("password", "password must be at least 6 characters long")
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return newValidationError("", "email and password are required")
	}
	return nil
}

func (p ProfileUpdate) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return newValidationError("name", "name cannot be empty")
	}
	return nil
}

// Apply merges the update into the user.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Avatar != nil {
		u.Avatar = strings.TrimSpace(*p.Avatar)
	}
}

// NormalizeEmail trims and lowercases an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LocalPart returns the part of the email before the "@".
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (u *User) IsFavorite(movieID string) bool {
	return slices.Contains(u.Favorites, movieID)
}

// AddFavorite appends movieID unless it is already a favorite.
// It reports whether the list changed.
func (u *User) AddFavorite(movieID string) bool {
	if u.IsFavorite(movieID) {
		return false
	}
	u.Favorites = append(slices.Clone(u.Favorites), movieID)
	return true
}

// RemoveFavorite filters movieID out of the favorites.
func (u *User) RemoveFavorite(movieID string) bool {
	if !u.IsFavorite(movieID) {
		return false
	}
	u.Favorites = slices.DeleteFunc(slices.Clone(u.Favorites), func(id string) bool {
		return id == movieID
	})
	return true
}
