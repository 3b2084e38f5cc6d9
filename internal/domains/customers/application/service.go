package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	"github.com/pawledger/registry-api/internal/domains/customers/domain"
	"github.com/pawledger/registry-api/internal/domains/customers/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// ErrInvalidInput signals the request violated a profile invariant.
var ErrInvalidInput = errors.New("invalid customer input")

// Service orchestrates customer use cases.
type Service struct {
	repo  ports.Repository
	clock func() time.Time
	newID func() string
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
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

// ResolveOrCreate matches an existing profile by case-insensitive email or
// provisions a new pre-confirmed one. Re-invoking with the same email never
// creates a duplicate.
func (s *Service) ResolveOrCreate(ctx context.Context, input custtypes.ResolveOrCreateInput) (*custtypes.ResolvedCustomer, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return &custtypes.ResolvedCustomer{Customer: *existing}, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}

	now := s.clock().UTC()
	customer := &domain.Customer{
		ID:        s.newID(),
		Email:     email,
		FullName:  input.FullName,
		Role:      domain.RoleCustomer,
		Locale:    input.Locale,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := customer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return &custtypes.ResolvedCustomer{Customer: *customer, Created: true}, nil
}

// List returns one page of the admin customer view with activity counts.
func (s *Service) List(ctx context.Context, input custtypes.ListInput) (query.PageResult[custtypes.CustomerRow], error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return query.PageResult[custtypes.CustomerRow]{}, err
	}
	return s.repo.ListPage(ctx, ports.ListFilter{Page: input.Page.Normalize()})
}

// Get loads one customer profile.
func (s *Service) Get(ctx context.Context, input custtypes.GetInput) (*domain.Customer, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, input.CustomerID)
}

var _ ports.Service = (*Service)(nil)
