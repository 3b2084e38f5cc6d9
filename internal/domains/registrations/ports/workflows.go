package ports

import (
	"context"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
)

// WorkflowOrchestrator exposes the durable provisioning operation required by
// the registrations bounded context.
type WorkflowOrchestrator interface {
	ProvisionRegistration(ctx context.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error)
}
