package ports

import (
	"context"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	msgdomain "github.com/pawledger/registry-api/internal/domains/messages/domain"
	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
)

// The sources are narrow read-only views onto the other contexts'
// repositories; each repository satisfies its source interface structurally.

type OrderSource interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status orderdomain.Status) (int64, error)
	SumTotalByStatus(ctx context.Context, status orderdomain.Status) (float64, error)
	ListRecent(ctx context.Context, limit int) ([]ordertypes.OrderRow, error)
}

type RegistrationSource interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status regdomain.Status) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]regtypes.RegistrationRow, error)
}

type MessageSource interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status msgdomain.Status) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]msgtypes.MessageRow, error)
}

type CustomerSource interface {
	CountAll(ctx context.Context) (int64, error)
}

type ServiceSource interface {
	CountActive(ctx context.Context) (int64, error)
}

type CouponSource interface {
	CountActive(ctx context.Context) (int64, error)
}

type ReviewSource interface {
	CountAll(ctx context.Context) (int64, error)
}
