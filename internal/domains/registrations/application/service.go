package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// Service orchestrates registration use cases. The transition table is
// consulted on every status action and the write itself is conditional on the
// status read here, so racing admins get ports.ErrConflict rather than both
// appearing to win.
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

// Approve moves a pending_review registration to active.
func (s *Service) Approve(ctx context.Context, input regtypes.ActionInput) (*domain.Registration, error) {
	return s.transition(ctx, input, domain.StatusActive)
}

// Reject moves a pending_review registration to revoked.
func (s *Service) Reject(ctx context.Context, input regtypes.ActionInput) (*domain.Registration, error) {
	return s.transition(ctx, input, domain.StatusRevoked)
}

// Suspend moves an active registration to suspended. Like approve/reject this
// is compare-and-swap, not an unconditional overwrite.
func (s *Service) Suspend(ctx context.Context, input regtypes.ActionInput) (*domain.Registration, error) {
	return s.transition(ctx, input, domain.StatusSuspended)
}

func (s *Service) transition(ctx context.Context, input regtypes.ActionInput, target domain.Status) (*domain.Registration, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.RegistrationID == "" {
		return nil, fmt.Errorf("%w: registration id is required", ErrInvalidInput)
	}
	current, err := s.repo.GetByID(ctx, input.RegistrationID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(current.Status, target); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.UpdateStatus(ctx, input.RegistrationID, current.Status, target, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.RegistrationID)
}

// SetAdminNotes replaces the registration's free-text notes.
func (s *Service) SetAdminNotes(ctx context.Context, input regtypes.SetNotesInput) (*domain.Registration, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.RegistrationID == "" {
		return nil, fmt.Errorf("%w: registration id is required", ErrInvalidInput)
	}
	if err := s.repo.SetAdminNotes(ctx, input.RegistrationID, input.Notes, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.RegistrationID)
}

// List returns one page of the admin registration view.
func (s *Service) List(ctx context.Context, input regtypes.ListInput) (query.PageResult[regtypes.RegistrationRow], error) {
	var empty query.PageResult[regtypes.RegistrationRow]
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return empty, err
	}
	filter := ports.ListFilter{Page: input.Page.Normalize()}
	if input.Status != "" {
		if !domain.IsValidStatus(domain.Status(input.Status)) {
			return empty, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidStatus)
		}
		filter.Status = domain.Status(input.Status)
	}
	if input.Type != "" {
		if !domain.IsValidType(domain.Type(input.Type)) {
			return empty, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidType)
		}
		filter.Type = domain.Type(input.Type)
	}
	return s.repo.ListPage(ctx, filter)
}

// Get loads one registration.
func (s *Service) Get(ctx context.Context, input regtypes.GetInput) (*domain.Registration, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.RegistrationID == "" {
		return nil, fmt.Errorf("%w: registration id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, input.RegistrationID)
}

// Verify is the public lookup by registration number. Only active, publicly
// visible registrations resolve; everything else reads as not found.
func (s *Service) Verify(ctx context.Context, input regtypes.VerifyInput) (*regtypes.VerifiedRegistration, error) {
	number := strings.TrimSpace(input.RegistrationNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: registration number is required", ErrInvalidInput)
	}
	return s.repo.VerifyByNumber(ctx, number)
}

var _ ports.Service = (*Service)(nil)
