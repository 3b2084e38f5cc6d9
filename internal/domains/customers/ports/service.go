package ports

import (
	"context"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	"github.com/pawledger/registry-api/internal/domains/customers/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// Service defines the customer use cases exposed to adapters (inbound port).
type Service interface {
	ResolveOrCreate(ctx context.Context, input custtypes.ResolveOrCreateInput) (*custtypes.ResolvedCustomer, error)
	List(ctx context.Context, input custtypes.ListInput) (query.PageResult[custtypes.CustomerRow], error)
	Get(ctx context.Context, input custtypes.GetInput) (*domain.Customer, error)
}
