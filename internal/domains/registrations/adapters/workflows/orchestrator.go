package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	regworkflows "github.com/pawledger/registry-api/internal/platform/temporal/workflows/registrations"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalProvisioning)(nil)
	_ ports.WorkflowOrchestrator = (*InlineProvisioning)(nil)
)

// TemporalProvisioning starts the provisioning workflow on a Temporal
// cluster.
type TemporalProvisioning struct {
	client    client.Client
	taskQueue string
}

// NewTemporalProvisioning wires a Temporal client into the orchestrator.
func NewTemporalProvisioning(c client.Client) *TemporalProvisioning {
	return &TemporalProvisioning{client: c, taskQueue: regworkflows.ProvisioningTaskQueue}
}

// ProvisionRegistration starts the durable workflow and waits for its result.
func (o *TemporalProvisioning) ProvisionRegistration(ctx context.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal provisioning not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        buildProvisioningWorkflowID(input),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		regworkflows.ProvisioningWorkflow,
		regworkflows.ProvisioningWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		return nil, err
	}
	var result regtypes.ProvisionResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlineProvisioning executes the provisioner directly without Temporal,
// useful for tests or dev fallbacks.
type InlineProvisioning struct {
	provisioner ports.Provisioner
}

// NewInlineProvisioning wraps the provisioner for synchronous execution.
func NewInlineProvisioning(provisioner ports.Provisioner) *InlineProvisioning {
	return &InlineProvisioning{provisioner: provisioner}
}

// ProvisionRegistration delegates to the provisioner without durable
// orchestration.
func (o *InlineProvisioning) ProvisionRegistration(ctx context.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error) {
	if o == nil || o.provisioner == nil {
		return nil, errors.New("inline provisioning not configured")
	}
	return o.provisioner.Provision(ctx, input)
}

// buildProvisioningWorkflowID keys the workflow on the normalized email so a
// double-submitted form does not start two provisioning runs at once.
func buildProvisioningWorkflowID(input regtypes.ProvisionInput) string {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return fmt.Sprintf("registration-provisioning-%d", time.Now().UnixNano())
	}
	sum := sha256.Sum256([]byte(email + "|" + input.PetName))
	return "registration-provisioning-" + hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
