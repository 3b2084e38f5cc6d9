package ports

import (
	"context"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// Service defines the order use cases exposed to adapters (inbound port).
type Service interface {
	ChangeStatus(ctx context.Context, input ordertypes.ChangeStatusInput) (*domain.Order, error)
	SetAdminNotes(ctx context.Context, input ordertypes.SetNotesInput) (*domain.Order, error)
	List(ctx context.Context, input ordertypes.ListInput) (query.PageResult[ordertypes.OrderRow], error)
	Get(ctx context.Context, input ordertypes.GetInput) (*ordertypes.OrderDetail, error)
	CreateComplimentary(ctx context.Context, input ordertypes.CreateComplimentaryInput) (*ordertypes.ComplimentaryOrder, error)
}
