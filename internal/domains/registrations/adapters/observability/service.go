package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

const tracerName = "github.com/pawledger/registry-api/internal/domains/registrations/adapters/observability/service"

// Service decorates the registration service with tracing, logging, and
// metrics.
type Service struct {
	inner   regports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core registration service.
func New(inner regports.Service, opts ...Option) regports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Approve(ctx context.Context, input regtypes.ActionInput) (*regdomain.Registration, error) {
	return s.action(ctx, "RegistrationService.Approve", input, s.inner.Approve)
}

func (s *Service) Reject(ctx context.Context, input regtypes.ActionInput) (*regdomain.Registration, error) {
	return s.action(ctx, "RegistrationService.Reject", input, s.inner.Reject)
}

func (s *Service) Suspend(ctx context.Context, input regtypes.ActionInput) (*regdomain.Registration, error) {
	return s.action(ctx, "RegistrationService.Suspend", input, s.inner.Suspend)
}

func (s *Service) action(
	ctx context.Context,
	name string,
	input regtypes.ActionInput,
	call func(context.Context, regtypes.ActionInput) (*regdomain.Registration, error),
) (*regdomain.Registration, error) {
	ctx, span := s.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("registration.id", input.RegistrationID)))
	defer span.End()

	result, err := call(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "registration action failed",
			slog.String("registration.id", input.RegistrationID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "registration status changed",
		slog.String("registration.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) SetAdminNotes(ctx context.Context, input regtypes.SetNotesInput) (*regdomain.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "RegistrationService.SetAdminNotes",
		trace.WithAttributes(attribute.String("registration.id", input.RegistrationID)))
	defer span.End()

	result, err := s.inner.SetAdminNotes(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to set registration notes",
			slog.String("registration.id", input.RegistrationID))
	}
	s.logInfo(ctx, "registration notes updated", slog.String("registration.id", result.ID))
	return result, nil
}

func (s *Service) List(ctx context.Context, input regtypes.ListInput) (query.PageResult[regtypes.RegistrationRow], error) {
	ctx, span := s.tracer.Start(ctx, "RegistrationService.List",
		trace.WithAttributes(
			attribute.Int("page", input.Page.Page),
			attribute.String("registration.status_filter", input.Status),
		))
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list registrations")
	}
	span.SetAttributes(attribute.Int64("registrations.total", result.Total))
	return result, nil
}

func (s *Service) Get(ctx context.Context, input regtypes.GetInput) (*regdomain.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "RegistrationService.Get",
		trace.WithAttributes(attribute.String("registration.id", input.RegistrationID)))
	defer span.End()

	result, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load registration",
			slog.String("registration.id", input.RegistrationID))
	}
	return result, nil
}

func (s *Service) Verify(ctx context.Context, input regtypes.VerifyInput) (*regtypes.VerifiedRegistration, error) {
	ctx, span := s.tracer.Start(ctx, "RegistrationService.Verify",
		trace.WithAttributes(attribute.String("registration.number", input.RegistrationNumber)))
	defer span.End()

	result, err := s.inner.Verify(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "registration verification missed",
			slog.String("registration.number", input.RegistrationNumber))
	}
	s.metrics.recordVerification(ctx)
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	transitions   metric.Int64Counter
	verifications metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("registrations.service.transitions",
		metric.WithDescription("Number of successful registration status transitions"))
	verifications, _ := m.Int64Counter("registrations.service.verifications",
		metric.WithDescription("Number of successful public verifications"))
	return serviceMetrics{transitions: transitions, verifications: verifications}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status regdomain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("registration.status", string(status))))
	}
}

func (m serviceMetrics) recordVerification(ctx context.Context) {
	if m.verifications != nil {
		m.verifications.Add(ctx, 1)
	}
}

var _ regports.Service = (*Service)(nil)
