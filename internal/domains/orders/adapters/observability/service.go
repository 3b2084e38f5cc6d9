package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

const tracerName = "github.com/pawledger/registry-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) ChangeStatus(ctx context.Context, input ordertypes.ChangeStatusInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ChangeStatus",
		trace.WithAttributes(
			attribute.String("order.id", input.OrderID),
			attribute.String("order.requested_status", string(input.Status)),
		))
	defer span.End()

	s.logInfo(ctx, "changing order status",
		slog.String("order.id", input.OrderID), slog.String("status", string(input.Status)))
	result, err := s.inner.ChangeStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "order status changed",
		slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) SetAdminNotes(ctx context.Context, input ordertypes.SetNotesInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SetAdminNotes",
		trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	result, err := s.inner.SetAdminNotes(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to set order notes", slog.String("order.id", input.OrderID))
	}
	s.logInfo(ctx, "order notes updated", slog.String("order.id", result.ID))
	return result, nil
}

func (s *Service) List(ctx context.Context, input ordertypes.ListInput) (query.PageResult[ordertypes.OrderRow], error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List",
		trace.WithAttributes(
			attribute.Int("page", input.Page.Page),
			attribute.String("order.status_filter", input.Status),
		))
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", result.Total))
	return result, nil
}

func (s *Service) Get(ctx context.Context, input ordertypes.GetInput) (*ordertypes.OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Get",
		trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	result, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.OrderID))
	}
	return result, nil
}

func (s *Service) CreateComplimentary(ctx context.Context, input ordertypes.CreateComplimentaryInput) (*ordertypes.ComplimentaryOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateComplimentary",
		trace.WithAttributes(attribute.String("order.customer_id", input.CustomerID)))
	defer span.End()

	s.logInfo(ctx, "creating complimentary order", slog.String("customer.id", input.CustomerID))
	result, err := s.inner.CreateComplimentary(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create complimentary order",
			slog.String("customer.id", input.CustomerID))
	}
	s.metrics.recordComplimentary(ctx)
	s.logInfo(ctx, "complimentary order created",
		slog.String("order.id", result.OrderID), slog.String("order.number", result.OrderNumber))
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
	statusChanges metric.Int64Counter
	complimentary metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	statusChanges, _ := m.Int64Counter("orders.service.status_changes",
		metric.WithDescription("Number of successful order status transitions"))
	complimentary, _ := m.Int64Counter("orders.service.complimentary_created",
		metric.WithDescription("Number of complimentary orders created by provisioning"))
	return serviceMetrics{statusChanges: statusChanges, complimentary: complimentary}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status orderdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordComplimentary(ctx context.Context) {
	if m.complimentary != nil {
		m.complimentary.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
