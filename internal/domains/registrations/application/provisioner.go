package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

const defaultCurrency = "USD"

// Provisioner performs the composite administrative creation: resolve or
// create the customer, book a zero-value completed order with one line item,
// then create the registration, active and publicly visible.
//
// Each step that creates a row pushes an undo; on a later failure the undos
// run in reverse so no orphaned rows survive. A customer that already existed
// before the call is never rolled back.
type Provisioner struct {
	registrations ports.Repository
	sequence      ports.NumberSequence
	customers     ports.CustomerDirectory
	orders        ports.OrderBook
	logger        *slog.Logger
	clock         func() time.Time
	newID         func() string
}

type ProvisionerOption func(*Provisioner)

func WithProvisionerClock(clock func() time.Time) ProvisionerOption {
	return func(p *Provisioner) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func WithProvisionerIDGenerator(gen func() string) ProvisionerOption {
	return func(p *Provisioner) {
		if gen != nil {
			p.newID = gen
		}
	}
}

func WithProvisionerLogger(logger *slog.Logger) ProvisionerOption {
	return func(p *Provisioner) {
		p.logger = logger
	}
}

func NewProvisioner(
	registrations ports.Repository,
	sequence ports.NumberSequence,
	customers ports.CustomerDirectory,
	orders ports.OrderBook,
	opts ...ProvisionerOption,
) *Provisioner {
	p := &Provisioner{
		registrations: registrations,
		sequence:      sequence,
		customers:     customers,
		orders:        orders,
		clock:         time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Provision executes the composite creation. On failure the returned error
// names the failing step and preserves its underlying message.
func (p *Provisioner) Provision(ctx context.Context, input regtypes.ProvisionInput) (*regtypes.ProvisionResult, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := validateProvisionInput(input); err != nil {
		return nil, err
	}

	var undos []func()
	rollback := func() {
		for i := len(undos) - 1; i >= 0; i-- {
			undos[i]()
		}
	}
	fail := func(step string, err error) (*regtypes.ProvisionResult, error) {
		rollback()
		return nil, fmt.Errorf("%w: %s: %w", ErrProvisionFailed, step, err)
	}

	customer, err := p.customers.ResolveOrCreate(ctx, input.Email, input.FullName, input.Locale)
	if err != nil {
		return fail("resolve customer", err)
	}
	if customer.Created {
		customerID := customer.ID
		undos = append(undos, func() {
			if undoErr := p.customers.Remove(context.WithoutCancel(ctx), customerID); undoErr != nil {
				p.logWarn(ctx, "provisioning rollback failed to remove customer",
					slog.String("customer.id", customerID), slog.String("error", undoErr.Error()))
			}
		})
	}

	order, err := p.orders.CreateComplimentary(ctx, customer.ID, input.ServiceID, defaultCurrency, input.Locale)
	if err != nil {
		return fail("create order", err)
	}
	orderID := order.OrderID
	undos = append(undos, func() {
		if undoErr := p.orders.Remove(context.WithoutCancel(ctx), orderID); undoErr != nil {
			p.logWarn(ctx, "provisioning rollback failed to remove order",
				slog.String("order.id", orderID), slog.String("error", undoErr.Error()))
		}
	})

	registrationType := domain.Type(input.RegistrationType)
	number, err := p.sequence.NextRegistrationNumber(ctx, registrationType)
	if err != nil {
		return fail("generate registration number", err)
	}

	now := p.clock().UTC()
	registrationDate := now
	if input.RegistrationDate != nil {
		registrationDate = *input.RegistrationDate
	}
	registration := &domain.Registration{
		ID:                 p.newID(),
		RegistrationNumber: number,
		CustomerID:         customer.ID,
		OrderID:            order.OrderID,
		OrderItemID:        order.OrderItemID,
		PetName:            input.PetName,
		PetSpecies:         input.PetSpecies,
		PetBreed:           input.PetBreed,
		PetColor:           input.PetColor,
		PetWeightKg:        input.PetWeightKg,
		PetDateOfBirth:     input.PetDateOfBirth,
		PetPhotoURL:        input.PetPhotoURL,
		HandlerName:        input.FullName,
		Type:               registrationType,
		Status:             domain.StatusActive,
		IsPublic:           true,
		AdminNotes:         input.AdminNotes,
		RegistrationDate:   registrationDate,
		ExpiryDate:         input.ExpiryDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := registration.Validate(); err != nil {
		rollback()
		return nil, mapError(err)
	}
	if err := p.registrations.Create(ctx, registration); err != nil {
		return fail("create registration", err)
	}

	return &regtypes.ProvisionResult{
		RegistrationID:     registration.ID,
		RegistrationNumber: registration.RegistrationNumber,
		OrderID:            order.OrderID,
		OrderNumber:        order.OrderNumber,
		CustomerID:         customer.ID,
		CustomerCreated:    customer.Created,
	}, nil
}

func validateProvisionInput(input regtypes.ProvisionInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"email", input.Email},
		{"fullName", input.FullName},
		{"petName", input.PetName},
		{"petBreed", input.PetBreed},
		{"petSpecies", input.PetSpecies},
		{"registrationType", input.RegistrationType},
		{"serviceId", input.ServiceID},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field.name)
		}
	}
	if !domain.IsValidType(domain.Type(input.RegistrationType)) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidType)
	}
	return nil
}

func (p *Provisioner) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if p.logger == nil {
		return
	}
	p.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

var _ ports.Provisioner = (*Provisioner)(nil)
