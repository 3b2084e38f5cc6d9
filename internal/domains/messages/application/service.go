package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/domains/messages/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// ErrInvalidInput signals the request violated a message invariant.
var ErrInvalidInput = errors.New("invalid message input")

// Service orchestrates the contact-message use cases.
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

// Submit records a contact-form submission. It is the one unauthenticated
// write in the system; every message starts out as new.
func (s *Service) Submit(ctx context.Context, input msgtypes.SubmitInput) (*domain.Message, error) {
	now := s.clock().UTC()
	message := &domain.Message{
		ID:        s.newID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      input.Body,
		Status:    domain.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := message.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// SetStatus moves a message to any known status. The inbox deliberately has
// no transition table.
func (s *Service) SetStatus(ctx context.Context, input msgtypes.SetStatusInput) (*domain.Message, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	status := domain.Status(input.Status)
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}
	if err := s.repo.SetStatus(ctx, input.MessageID, status, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.MessageID)
}

// SetAdminNotes replaces the internal notes on a message.
func (s *Service) SetAdminNotes(ctx context.Context, input msgtypes.SetNotesInput) (*domain.Message, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.repo.SetAdminNotes(ctx, input.MessageID, input.Notes, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.MessageID)
}

// Assign hands the message to an admin; an empty assignee unassigns it.
func (s *Service) Assign(ctx context.Context, input msgtypes.AssignInput) (*domain.Message, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.repo.Assign(ctx, input.MessageID, strings.TrimSpace(input.AssignedTo), s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, input.MessageID)
}

// List returns one page of the admin inbox.
func (s *Service) List(ctx context.Context, input msgtypes.ListInput) (query.PageResult[msgtypes.MessageRow], error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return query.PageResult[msgtypes.MessageRow]{}, err
	}
	filter := ports.ListFilter{Page: input.Page.Normalize()}
	if input.Status != "" {
		status := domain.Status(input.Status)
		if !domain.IsValidStatus(status) {
			return query.PageResult[msgtypes.MessageRow]{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
		}
		filter.Status = status
	}
	return s.repo.ListPage(ctx, filter)
}

// Get loads one message.
func (s *Service) Get(ctx context.Context, input msgtypes.GetInput) (*domain.Message, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.MessageID == "" {
		return nil, fmt.Errorf("%w: message id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, input.MessageID)
}

var _ ports.Service = (*Service)(nil)
