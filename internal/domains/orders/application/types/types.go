package types

import (
	"time"

	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// OrderRow is the flattened admin listing projection, customer display fields
// joined in. Missing customer rows coalesce to empty strings.
type OrderRow struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	CustomerID    string        `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Status        domain.Status `json:"status"`
	TotalAmount   float64       `json:"totalAmount"`
	Currency      string        `json:"currency"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// ItemRow is a line item with the referenced service name joined in.
type ItemRow struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Quantity    int32   `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// OrderDetail is the single-order admin view.
type OrderDetail struct {
	Order         domain.Order `json:"order"`
	CustomerName  string       `json:"customerName"`
	CustomerEmail string       `json:"customerEmail"`
	Items         []ItemRow    `json:"items"`
}

// ListInput pages through the order collection.
type ListInput struct {
	Caller identity.Caller
	Page   query.PageRequest
	Status string
}

// GetInput loads a single order with items.
type GetInput struct {
	Caller  identity.Caller
	OrderID string
}

// ChangeStatusInput requests one edge of the fulfillment sequence.
type ChangeStatusInput struct {
	Caller  identity.Caller
	OrderID string
	Status  domain.Status
}

// SetNotesInput replaces the free-text admin notes.
type SetNotesInput struct {
	Caller  identity.Caller
	OrderID string
	Notes   string
}

// CreateComplimentaryInput books a zero-value completed order, used when an
// administrator provisions a registration without a checkout.
type CreateComplimentaryInput struct {
	Caller     identity.Caller
	CustomerID string
	ServiceID  string
	Currency   string
	Locale     string
}

// ComplimentaryOrder reports the rows created by CreateComplimentary.
type ComplimentaryOrder struct {
	OrderID     string
	OrderNumber string
	OrderItemID string
}
