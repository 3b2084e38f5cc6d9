package ports

import (
	"context"
	"errors"
	"time"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var ErrNotFound = errors.New("message not found")

// ListFilter narrows the admin inbox listing.
type ListFilter struct {
	Page   query.PageRequest
	Status domain.Status
}

// Repository persists contact messages. Message statuses carry no transition
// table, so SetStatus is a plain stamped write rather than a compare-and-swap.
type Repository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	SetStatus(ctx context.Context, id string, status domain.Status, now time.Time) error
	SetAdminNotes(ctx context.Context, id string, notes string, now time.Time) error
	Assign(ctx context.Context, id string, assignee string, now time.Time) error
	ListPage(ctx context.Context, filter ListFilter) (query.PageResult[msgtypes.MessageRow], error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.Status) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]msgtypes.MessageRow, error)
}
