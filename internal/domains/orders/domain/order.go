package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status enumerates order fulfillment progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidCustomerID = errors.New("customer id is required")
	ErrInvalidCurrency   = errors.New("currency is required")
	ErrInvalidAmount     = errors.New("total amount must not be negative")
)

// transitions is the single source of legality for status changes. Terminal
// states map to an empty set.
var transitions = map[Status][]Status{
	StatusPending:    {StatusPaid, StatusCancelled, StatusFailed},
	StatusPaid:       {StatusProcessing, StatusCancelled, StatusRefunded},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusCompleted, StatusRefunded},
	StatusCompleted:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
	StatusFailed:     {},
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot change from %q to %q", e.From, e.To)
}

// IsValidStatus reports whether the value is a member of the status enum.
func IsValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}

// NextStatuses returns the statuses directly reachable from the given status.
func NextStatuses(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(status Status) bool {
	return IsValidStatus(status) && len(transitions[status]) == 0
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

// ValidateTransition accepts or rejects a requested status change. Unknown
// statuses fail with ErrInvalidStatus before the edge is consulted.
func ValidateTransition(from, to Status) error {
	if !IsValidStatus(from) || !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// Order models one purchase progressing through the fulfillment sequence.
type Order struct {
	ID          string
	OrderNumber string
	CustomerID  string
	Status      Status
	TotalAmount float64
	Currency    string
	AdminNotes  string
	Locale      string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is an immutable line item owned by its Order.
type OrderItem struct {
	ID         string
	OrderID    string
	ServiceID  string
	Quantity   int32
	UnitPrice  float64
	TotalPrice float64
	CreatedAt  time.Time
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if o.Currency == "" {
		return ErrInvalidCurrency
	}
	if o.TotalAmount < 0 {
		return ErrInvalidAmount
	}
	if !IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}
