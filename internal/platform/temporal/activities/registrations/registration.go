package registrations

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	regapp "github.com/pawledger/registry-api/internal/domains/registrations/application"
	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

// ProvisionRegistrationActivityName runs the composite administrative
// creation, including its compensating rollback.
const ProvisionRegistrationActivityName = "registrations.activities.ProvisionRegistration"

// Application error types reported to Temporal for failures no retry can fix.
// The workflow retry policy references the same names.
const (
	ErrTypeInvalidInput = "InvalidRegistrationInput"
	ErrTypeUnauthorized = "Unauthorized"
	ErrTypeForbidden    = "Forbidden"
)

// Activities groups activities that operate on the registrations bounded
// context.
type Activities struct {
	provisioner regports.Provisioner
}

// NewActivities wires the provisioner into the Temporal activities bundle.
func NewActivities(provisioner regports.Provisioner) *Activities {
	return &Activities{provisioner: provisioner}
}

// ProvisionRegistration executes the composite creation and returns its
// result. The provisioner compensates partial work itself, so a retry always
// starts from a clean slate.
func (a *Activities) ProvisionRegistration(ctx context.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.provisioner == nil {
		logger.Error("provision activity not initialized", "email", input.Email)
		return nil, errors.New("provision activity not initialized")
	}
	logger.Info("ProvisionRegistration activity started", "email", input.Email)
	result, err := a.provisioner.Provision(ctx, input)
	if err != nil {
		logger.Error("ProvisionRegistration activity failed", "email", input.Email, "error", err)
		return nil, classifyProvisionError(err)
	}
	logger.Info("ProvisionRegistration activity completed",
		"registrationId", result.RegistrationID, "registrationNumber", result.RegistrationNumber)
	return result, nil
}

// classifyProvisionError marks deterministic failures as non-retryable
// application errors so the server fails the activity on the first attempt.
// Retry policies match on the application error type, never on the message,
// so wrapped sentinels must be translated here. Downstream failures pass
// through unchanged and stay retryable.
func classifyProvisionError(err error) error {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeUnauthorized, err)
	case errors.Is(err, identity.ErrForbidden):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeForbidden, err)
	case errors.Is(err, regapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	}
	return err
}
