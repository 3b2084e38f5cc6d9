package types

import (
	"time"

	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// MessageRow is the admin inbox projection.
type MessageRow struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Subject    string        `json:"subject"`
	Status     domain.Status `json:"status"`
	AssignedTo string        `json:"assignedTo,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// SubmitInput is the public contact-form payload. No caller: the form is
// unauthenticated.
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

type ListInput struct {
	Caller identity.Caller
	Page   query.PageRequest
	Status string
}

type GetInput struct {
	Caller    identity.Caller
	MessageID string
}

type SetStatusInput struct {
	Caller    identity.Caller
	MessageID string
	Status    string
}

type SetNotesInput struct {
	Caller    identity.Caller
	MessageID string
	Notes     string
}

type AssignInput struct {
	Caller    identity.Caller
	MessageID string
	// AssignedTo is the admin handling the message; empty unassigns.
	AssignedTo string
}
