package ports

import (
	"context"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// Service exposes the contact-message use cases.
type Service interface {
	Submit(ctx context.Context, input msgtypes.SubmitInput) (*domain.Message, error)
	SetStatus(ctx context.Context, input msgtypes.SetStatusInput) (*domain.Message, error)
	SetAdminNotes(ctx context.Context, input msgtypes.SetNotesInput) (*domain.Message, error)
	Assign(ctx context.Context, input msgtypes.AssignInput) (*domain.Message, error)
	List(ctx context.Context, input msgtypes.ListInput) (query.PageResult[msgtypes.MessageRow], error)
	Get(ctx context.Context, input msgtypes.GetInput) (*domain.Message, error)
}
