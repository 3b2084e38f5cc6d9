package types

import (
	"time"

	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// RegistrationRow is the flattened admin listing projection with customer
// display fields joined in.
type RegistrationRow struct {
	ID                 string        `json:"id"`
	RegistrationNumber string        `json:"registrationNumber"`
	CustomerID         string        `json:"customerId"`
	CustomerName       string        `json:"customerName"`
	CustomerEmail      string        `json:"customerEmail"`
	PetName            string        `json:"petName"`
	Type               domain.Type   `json:"type"`
	Status             domain.Status `json:"status"`
	IsPublic           bool          `json:"isPublic"`
	ExpiryDate         *time.Time    `json:"expiryDate,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// VerifiedRegistration is the public verification projection. It exposes no
// customer identifiers.
type VerifiedRegistration struct {
	RegistrationNumber string        `json:"registrationNumber"`
	PetName            string        `json:"petName"`
	PetSpecies         string        `json:"petSpecies"`
	PetBreed           string        `json:"petBreed"`
	HandlerName        string        `json:"handlerName"`
	Type               domain.Type   `json:"type"`
	Status             domain.Status `json:"status"`
	RegistrationDate   time.Time     `json:"registrationDate"`
	ExpiryDate         *time.Time    `json:"expiryDate,omitempty"`
}

// ListInput pages through the registration collection.
type ListInput struct {
	Caller identity.Caller
	Page   query.PageRequest
	Status string
	Type   string
}

// GetInput loads one registration.
type GetInput struct {
	Caller         identity.Caller
	RegistrationID string
}

// ActionInput carries one of the three admin transitions: approve, reject,
// suspend.
type ActionInput struct {
	Caller         identity.Caller
	RegistrationID string
}

// SetNotesInput replaces the free-text admin notes.
type SetNotesInput struct {
	Caller         identity.Caller
	RegistrationID string
	Notes          string
}

// VerifyInput is the public lookup by registration number; no caller needed.
type VerifyInput struct {
	RegistrationNumber string
}

// ProvisionInput is the administrative from-scratch creation payload.
type ProvisionInput struct {
	Caller           identity.Caller
	Email            string
	FullName         string
	PetName          string
	PetBreed         string
	PetSpecies       string
	RegistrationType string
	ServiceID        string

	PetColor         string
	PetWeightKg      *float64
	PetDateOfBirth   *time.Time
	PetPhotoURL      string
	ExpiryDate       *time.Time
	RegistrationDate *time.Time
	AdminNotes       string
	Locale           string
}

// ProvisionResult reports every row the composite operation created.
type ProvisionResult struct {
	RegistrationID     string `json:"registrationId"`
	RegistrationNumber string `json:"registrationNumber"`
	OrderID            string `json:"orderId"`
	OrderNumber        string `json:"orderNumber"`
	CustomerID         string `json:"customerId"`
	CustomerCreated    bool   `json:"customerCreated"`
}
