package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrInvalidEmail    = errors.New("customer email is invalid")
	ErrInvalidFullName = errors.New("customer full name is required")
)

// Customer is the profile record owned by the identity collaborator. The
// application holds it as a thin cache keyed by the store's id.
type Customer struct {
	ID        string
	Email     string
	FullName  string
	Role      string
	Locale    string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lowercases and trims an email for the case-insensitive
// matching that resolve-or-create relies on.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate enforces invariants on the profile.
func (c *Customer) Validate() error {
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(c.FullName) == "" {
		return ErrInvalidFullName
	}
	return nil
}
