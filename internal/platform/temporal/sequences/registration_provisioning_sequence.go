package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	regactivities "github.com/pawledger/registry-api/internal/platform/temporal/activities/registrations"
)

// RunRegistrationProvisioningSequence executes the single activity that
// performs the composite creation. Validation and authorization failures are
// terminal; only downstream failures are worth retrying.
func RunRegistrationProvisioningSequence(ctx workflow.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("registration provisioning sequence started", "email", input.Email)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
			NonRetryableErrorTypes: []string{
				regactivities.ErrTypeInvalidInput,
				regactivities.ErrTypeUnauthorized,
				regactivities.ErrTypeForbidden,
			},
		},
	}

	var result regtypes.ProvisionResult
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		regactivities.ProvisionRegistrationActivityName,
		input,
	).Get(ctx, &result)
	if err != nil {
		logger.Error("registration provisioning sequence failed", "email", input.Email, "error", err)
		return nil, err
	}
	logger.Info("registration provisioning sequence completed",
		"registrationId", result.RegistrationID)
	return &result, nil
}
