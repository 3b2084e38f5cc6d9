package registrations

import (
	"go.temporal.io/sdk/workflow"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/platform/temporal/sequences"
)

const (
	// ProvisioningWorkflowName is the public identifier for registering the
	// workflow.
	ProvisioningWorkflowName = "registrations.workflows.Provisioning"
	// ProvisioningTaskQueue is the queue consumed by the worker processing
	// registration workflows.
	ProvisioningTaskQueue = "REGISTRATION_PROVISIONING"
)

// ProvisioningWorkflowInput captures the payload required to provision a
// registration from scratch.
type ProvisioningWorkflowInput struct {
	Command regtypes.ProvisionInput
	TraceID string
}

// ProvisioningWorkflow orchestrates the composite administrative creation.
func ProvisioningWorkflow(ctx workflow.Context, input ProvisioningWorkflowInput) (*regtypes.ProvisionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ProvisioningWorkflow started", withTraceID(input.TraceID, "email", input.Command.Email)...)
	result, err := sequences.RunRegistrationProvisioningSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ProvisioningWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("ProvisioningWorkflow completed",
		withTraceID(input.TraceID, "registrationId", result.RegistrationID)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
