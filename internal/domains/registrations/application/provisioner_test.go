package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	custmemory "github.com/pawledger/registry-api/internal/domains/customers/adapters/memory"
	custapplication "github.com/pawledger/registry-api/internal/domains/customers/application"
	ordermemory "github.com/pawledger/registry-api/internal/domains/orders/adapters/memory"
	orderapplication "github.com/pawledger/registry-api/internal/domains/orders/application"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/adapters/memory"
	"github.com/pawledger/registry-api/internal/domains/registrations/adapters/provisioning"
	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

type provisionFixture struct {
	provisioner   *Provisioner
	registrations *memory.Repository
	customers     *custmemory.Repository
	orders        *ordermemory.Repository
}

func newProvisionFixture(t *testing.T, sequence ports.NumberSequence, registrations ports.Repository) *provisionFixture {
	t.Helper()
	custRepo := custmemory.NewRepository()
	custService := custapplication.NewService(custRepo)
	orderRepo := ordermemory.NewRepository(ordermemory.WithCustomerLookup(custRepo.DisplayLookup))
	orderService := orderapplication.NewService(orderRepo, ordermemory.NewSequence())

	regRepo, _ := registrations.(*memory.Repository)
	if registrations == nil {
		regRepo = memory.NewRepository(memory.WithCustomerLookup(custRepo.DisplayLookup))
		registrations = regRepo
	}
	if sequence == nil {
		sequence = memory.NewSequence()
	}

	return &provisionFixture{
		provisioner: NewProvisioner(
			registrations,
			sequence,
			provisioning.NewDirectory(custService, custRepo),
			provisioning.NewOrderBook(orderService, orderRepo),
		),
		registrations: regRepo,
		customers:     custRepo,
		orders:        orderRepo,
	}
}

func validProvisionInput() regtypes.ProvisionInput {
	return regtypes.ProvisionInput{
		Caller:           admin,
		Email:            "new.owner@example.com",
		FullName:         "New Owner",
		PetName:          "Biscuit",
		PetBreed:         "labrador",
		PetSpecies:       "dog",
		RegistrationType: "esa",
		ServiceID:        "svc-1",
	}
}

func TestProvision_CreatesOneOfEachRow(t *testing.T) {
	fx := newProvisionFixture(t, nil, nil)
	ctx := context.Background()

	result, err := fx.provisioner.Provision(ctx, validProvisionInput())
	require.NoError(t, err)
	require.True(t, result.CustomerCreated)
	require.Equal(t, "ESA-000001", result.RegistrationNumber)
	require.Equal(t, "ORD-000001", result.OrderNumber)

	customers, err := fx.customers.CountAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, customers)

	order, err := fx.orders.GetByID(ctx, result.OrderID)
	require.NoError(t, err)
	require.Equal(t, orderdomain.StatusCompleted, order.Status)
	require.Zero(t, order.TotalAmount)

	detail, err := fx.orders.Detail(ctx, result.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	require.Zero(t, detail.Items[0].UnitPrice)

	registration, err := fx.registrations.GetByID(ctx, result.RegistrationID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, registration.Status)
	require.True(t, registration.IsPublic)
	require.Equal(t, result.CustomerID, registration.CustomerID)
	require.Equal(t, result.OrderID, registration.OrderID)
}

func TestProvision_ReusesExistingCustomer(t *testing.T) {
	fx := newProvisionFixture(t, nil, nil)
	ctx := context.Background()

	first, err := fx.provisioner.Provision(ctx, validProvisionInput())
	require.NoError(t, err)

	input := validProvisionInput()
	input.Email = "NEW.OWNER@EXAMPLE.COM"
	input.PetName = "Waffle"
	second, err := fx.provisioner.Provision(ctx, input)
	require.NoError(t, err)
	require.False(t, second.CustomerCreated)
	require.Equal(t, first.CustomerID, second.CustomerID)

	customers, err := fx.customers.CountAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, customers)
}

func TestProvision_ValidatesRequiredFields(t *testing.T) {
	fx := newProvisionFixture(t, nil, nil)
	ctx := context.Background()

	missingEmail := validProvisionInput()
	missingEmail.Email = ""
	_, err := fx.provisioner.Provision(ctx, missingEmail)
	require.ErrorIs(t, err, ErrInvalidInput)

	badType := validProvisionInput()
	badType.RegistrationType = "hamster"
	_, err = fx.provisioner.Provision(ctx, badType)
	require.ErrorIs(t, err, ErrInvalidInput)

	anonymous := validProvisionInput()
	anonymous.Caller = identity.Caller{}
	_, err = fx.provisioner.Provision(ctx, anonymous)
	require.ErrorIs(t, err, identity.ErrUnauthorized)

	// Nothing was written for any of the failures above.
	customers, err := fx.customers.CountAll(ctx)
	require.NoError(t, err)
	require.Zero(t, customers)
}

type failingSequence struct{}

func (failingSequence) NextRegistrationNumber(context.Context, domain.Type) (string, error) {
	return "", errors.New("sequence unavailable")
}

func TestProvision_RollsBackCreatedRowsOnFailure(t *testing.T) {
	fx := newProvisionFixture(t, failingSequence{}, nil)
	ctx := context.Background()

	_, err := fx.provisioner.Provision(ctx, validProvisionInput())
	require.ErrorIs(t, err, ErrProvisionFailed)
	require.ErrorContains(t, err, "generate registration number")
	require.ErrorContains(t, err, "sequence unavailable")

	// The newly created customer and order were compensated away.
	customers, err := fx.customers.CountAll(ctx)
	require.NoError(t, err)
	require.Zero(t, customers)
	orders, err := fx.orders.CountAll(ctx)
	require.NoError(t, err)
	require.Zero(t, orders)
}

func TestProvision_NeverRollsBackPreexistingCustomer(t *testing.T) {
	ctx := context.Background()

	// Seed the customer through a successful run, then fail a second run
	// against the same stores.
	fxOK := newProvisionFixture(t, nil, nil)
	_, err := fxOK.provisioner.Provision(ctx, validProvisionInput())
	require.NoError(t, err)

	broken := NewProvisioner(
		memory.NewRepository(),
		failingSequence{},
		provisioning.NewDirectory(custapplication.NewService(fxOK.customers), fxOK.customers),
		provisioning.NewOrderBook(
			orderapplication.NewService(fxOK.orders, ordermemory.NewSequence()),
			fxOK.orders,
		),
	)
	_, err = broken.Provision(ctx, validProvisionInput())
	require.ErrorIs(t, err, ErrProvisionFailed)

	// The pre-existing customer survives the rollback; the order created by
	// the failed run does not.
	customers, err := fxOK.customers.CountAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, customers)
	orders, err := fxOK.orders.CountAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, orders)
}
