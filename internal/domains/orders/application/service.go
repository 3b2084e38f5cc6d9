package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

const defaultCurrency = "USD"

// Service orchestrates order use cases. Every operation re-checks the admin
// role on the explicit caller value; transport-level auth is not trusted on
// its own.
type Service struct {
	repo  ports.Repository
	seq   ports.NumberSequence
	clock func() time.Time
	newID func() string
}

type Option func(*Service)

// WithClock overrides the update-timestamp source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides row id generation, used by tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, seq ports.NumberSequence, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		seq:   seq,
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ChangeStatus moves an order along one edge of the transition table. The
// write is conditional on the status read here, so a concurrent admin racing
// on the same order surfaces ports.ErrConflict instead of silently winning.
func (s *Service) ChangeStatus(ctx context.Context, input ordertypes.ChangeStatusInput) (*domain.Order, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.OrderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	if !domain.IsValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidStatus)
	}
	current, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(current.Status, input.Status); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.UpdateStatus(ctx, input.OrderID, current.Status, input.Status, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.OrderID)
}

// SetAdminNotes replaces the order's free-text notes.
func (s *Service) SetAdminNotes(ctx context.Context, input ordertypes.SetNotesInput) (*domain.Order, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.OrderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	if err := s.repo.SetAdminNotes(ctx, input.OrderID, input.Notes, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.OrderID)
}

// List returns one page of the admin order view.
func (s *Service) List(ctx context.Context, input ordertypes.ListInput) (query.PageResult[ordertypes.OrderRow], error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return query.PageResult[ordertypes.OrderRow]{}, err
	}
	filter := ports.ListFilter{Page: input.Page.Normalize()}
	if input.Status != "" {
		if !domain.IsValidStatus(domain.Status(input.Status)) {
			return query.PageResult[ordertypes.OrderRow]{}, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidStatus)
		}
		filter.Status = domain.Status(input.Status)
	}
	return s.repo.ListPage(ctx, filter)
}

// Get loads an order with its line items and customer display fields.
func (s *Service) Get(ctx context.Context, input ordertypes.GetInput) (*ordertypes.OrderDetail, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.OrderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	return s.repo.Detail(ctx, input.OrderID)
}

// CreateComplimentary books a zero-value order, already completed, with a
// single zero-price line item for the selected service.
func (s *Service) CreateComplimentary(ctx context.Context, input ordertypes.CreateComplimentaryInput) (*ordertypes.ComplimentaryOrder, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if input.ServiceID == "" {
		return nil, fmt.Errorf("%w: service id is required", ErrInvalidInput)
	}
	number, err := s.seq.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}
	now := s.clock().UTC()
	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	order := &domain.Order{
		ID:          s.newID(),
		OrderNumber: number,
		CustomerID:  input.CustomerID,
		Status:      domain.StatusCompleted,
		TotalAmount: 0,
		Currency:    currency,
		Locale:      input.Locale,
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	item := domain.OrderItem{
		ID:        s.newID(),
		OrderID:   order.ID,
		ServiceID: input.ServiceID,
		Quantity:  1,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, order, []domain.OrderItem{item}); err != nil {
		return nil, err
	}
	return &ordertypes.ComplimentaryOrder{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OrderItemID: item.ID,
	}, nil
}

var _ ports.Service = (*Service)(nil)
