package ports

import (
	"context"
	"errors"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	"github.com/pawledger/registry-api/internal/domains/customers/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var ErrNotFound = errors.New("customer not found")

// ListFilter narrows the paginated customer listing.
type ListFilter struct {
	Page query.PageRequest
}

// Repository persists customer profiles.
type Repository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// Remove exists solely for provisioning compensation.
	Remove(ctx context.Context, id string) error
	ListPage(ctx context.Context, filter ListFilter) (query.PageResult[custtypes.CustomerRow], error)
	CountAll(ctx context.Context) (int64, error)
}
