package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status enumerates the registration lifecycle.
type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusActive        Status = "active"
	StatusSuspended     Status = "suspended"
	StatusRevoked       Status = "revoked"
	StatusExpired       Status = "expired"
)

// Type distinguishes emotional-support-animal from psychiatric-service-dog
// registrations. The type prefixes the registration number.
type Type string

const (
	TypeESA Type = "esa"
	TypePSD Type = "psd"
)

var (
	ErrInvalidStatus     = errors.New("registration status is invalid")
	ErrInvalidType       = errors.New("registration type is invalid")
	ErrInvalidCustomerID = errors.New("customer id is required")
	ErrInvalidPetName    = errors.New("pet name is required")
)

// Only three admin-reachable edges exist. Expiry is applied by the sweep job,
// never as an admin-requested transition.
var transitions = map[Status][]Status{
	StatusPendingReview: {StatusActive, StatusRevoked},
	StatusActive:        {StatusSuspended},
	StatusSuspended:     {},
	StatusRevoked:       {},
	StatusExpired:       {},
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("registration status cannot change from %q to %q", e.From, e.To)
}

// IsValidStatus reports whether the value is a member of the status enum.
func IsValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}

// IsValidType reports whether the value is a known registration type.
func IsValidType(t Type) bool {
	return t == TypeESA || t == TypePSD
}

// NextStatuses returns the statuses directly reachable from the given status.
func NextStatuses(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ValidateTransition accepts or rejects a requested status change.
func ValidateTransition(from, to Status) error {
	if !IsValidStatus(from) || !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// Registration models one certified animal-handler pairing.
type Registration struct {
	ID                 string
	RegistrationNumber string
	CustomerID         string
	OrderID            string
	OrderItemID        string
	PetName            string
	PetSpecies         string
	PetBreed           string
	PetColor           string
	PetWeightKg        *float64
	PetDateOfBirth     *time.Time
	PetPhotoURL        string
	HandlerName        string
	Type               Type
	Status             Status
	IsPublic           bool
	AdminNotes         string
	RegistrationDate   time.Time
	ExpiryDate         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate enforces invariants on the aggregate.
func (r *Registration) Validate() error {
	if r.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if r.PetName == "" {
		return ErrInvalidPetName
	}
	if !IsValidType(r.Type) {
		return ErrInvalidType
	}
	if !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// ExpiresBefore reports whether an active registration's expiry date has
// passed at the given instant.
func (r *Registration) ExpiresBefore(now time.Time) bool {
	return r.Status == StatusActive && r.ExpiryDate != nil && r.ExpiryDate.Before(now)
}
