package ports

import (
	"context"
	"errors"
	"time"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var (
	ErrNotFound = errors.New("registration not found")
	// ErrConflict signals a conditional update lost to a concurrent writer.
	ErrConflict = errors.New("registration was modified concurrently")
)

// ListFilter narrows the paginated registration listing.
type ListFilter struct {
	Page   query.PageRequest
	Status domain.Status
	Type   domain.Type
}

// Repository persists pet registrations.
type Repository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	// UpdateStatus is a compare-and-swap keyed on the expected prior status.
	// Zero rows affected on an existing row yields ErrConflict.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, now time.Time) error
	SetAdminNotes(ctx context.Context, id, notes string, now time.Time) error
	// Remove exists solely for provisioning compensation.
	Remove(ctx context.Context, id string) error
	ListPage(ctx context.Context, filter ListFilter) (query.PageResult[regtypes.RegistrationRow], error)
	// VerifyByNumber resolves the public projection for an active, publicly
	// visible registration. Anything else is ErrNotFound.
	VerifyByNumber(ctx context.Context, number string) (*regtypes.VerifiedRegistration, error)
	// ExpireDue marks active registrations whose expiry date has passed as
	// expired and reports how many rows changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.Status) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]regtypes.RegistrationRow, error)
}

// NumberSequence issues type-prefixed registration numbers (ESA-/PSD-).
type NumberSequence interface {
	NextRegistrationNumber(ctx context.Context, registrationType domain.Type) (string, error)
}
