package ports

import (
	"context"
	"errors"
	"time"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrConflict signals a conditional update lost to a concurrent writer.
	ErrConflict = errors.New("order was modified concurrently")
)

// ListFilter narrows the paginated order listing.
type ListFilter struct {
	Page   query.PageRequest
	Status domain.Status
}

// Repository persists orders and their line items.
type Repository interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Detail(ctx context.Context, id string) (*ordertypes.OrderDetail, error)
	// UpdateStatus is a compare-and-swap: the write only applies where the
	// stored status still equals from. Zero rows affected on an existing row
	// yields ErrConflict.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, now time.Time) error
	SetAdminNotes(ctx context.Context, id, notes string, now time.Time) error
	// Remove deletes an order and its line items. Orders are never deleted in
	// normal operation; this exists solely so provisioning can compensate a
	// partially applied creation.
	Remove(ctx context.Context, id string) error
	ListPage(ctx context.Context, filter ListFilter) (query.PageResult[ordertypes.OrderRow], error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.Status) (int64, error)
	SumTotalByStatus(ctx context.Context, status domain.Status) (float64, error)
	ListRecent(ctx context.Context, limit int) ([]ordertypes.OrderRow, error)
}

// NumberSequence issues human-readable order numbers.
type NumberSequence interface {
	NextOrderNumber(ctx context.Context) (string, error)
}
