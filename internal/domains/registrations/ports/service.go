package ports

import (
	"context"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// Service defines the registration use cases exposed to adapters (inbound
// port).
type Service interface {
	Approve(ctx context.Context, input regtypes.ActionInput) (*domain.Registration, error)
	Reject(ctx context.Context, input regtypes.ActionInput) (*domain.Registration, error)
	Suspend(ctx context.Context, input regtypes.ActionInput) (*domain.Registration, error)
	SetAdminNotes(ctx context.Context, input regtypes.SetNotesInput) (*domain.Registration, error)
	List(ctx context.Context, input regtypes.ListInput) (query.PageResult[regtypes.RegistrationRow], error)
	Get(ctx context.Context, input regtypes.GetInput) (*domain.Registration, error)
	Verify(ctx context.Context, input regtypes.VerifyInput) (*regtypes.VerifiedRegistration, error)
}

// Provisioner is the composite from-scratch creation operation, kept separate
// from Service so the workflow activity can depend on it alone.
type Provisioner interface {
	Provision(ctx context.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error)
}
