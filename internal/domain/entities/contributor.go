package entities

import "time"

// Contributor is a registered user who submits resources
type Contributor struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Expertise    []string   `json:"expertise_areas" db:"expertise_areas"`
	Organization string     `json:"organization" db:"organization"`
	Bio          string     `json:"bio" db:"bio"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// Session is an authenticated contributor session
type Session struct {
	ID              string    `json:"id"`
	ContributorID   string    `json:"contributor_id"`
	ContributorName string    `json:"contributor_name"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RegisterRequest holds the fields needed to create a contributor account
type RegisterRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Email        string   `json:"email" validate:"required,email,max=255"`
	Password     string   `json:"password" validate:"required,min=8,max=72"`
	Expertise    []string `json:"expertise_areas" validate:"omitempty,max=20,dive,max=64"`
	Organization string   `json:"organization" validate:"omitempty,max=200"`
	Bio          string   `json:"bio" validate:"omitempty,max=2000"`
}

// LoginRequest holds contributor credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
