package types

import (
	"time"

	"github.com/pawledger/registry-api/internal/domains/customers/domain"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// CustomerRow is the admin listing projection with per-customer activity
// counts joined in.
type CustomerRow struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"fullName"`
	Role              string    `json:"role"`
	Locale            string    `json:"locale"`
	OrderCount        int64     `json:"orderCount"`
	RegistrationCount int64     `json:"registrationCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ResolvedCustomer reports the outcome of resolve-or-create.
type ResolvedCustomer struct {
	Customer domain.Customer
	Created  bool
}

// ResolveOrCreateInput matches a customer by case-insensitive email and
// provisions a pre-confirmed profile when absent.
type ResolveOrCreateInput struct {
	Caller   identity.Caller
	Email    string
	FullName string
	Locale   string
}

// ListInput pages through the customer collection.
type ListInput struct {
	Caller identity.Caller
	Page   query.PageRequest
}

// GetInput loads one customer.
type GetInput struct {
	Caller     identity.Caller
	CustomerID string
}
