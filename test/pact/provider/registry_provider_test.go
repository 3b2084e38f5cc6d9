//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/pawledger/registry-api/test/pact"

	catmemory "github.com/pawledger/registry-api/internal/domains/catalog/adapters/memory"
	catapp "github.com/pawledger/registry-api/internal/domains/catalog/application"
	custmemory "github.com/pawledger/registry-api/internal/domains/customers/adapters/memory"
	custapp "github.com/pawledger/registry-api/internal/domains/customers/application"
	msgmemory "github.com/pawledger/registry-api/internal/domains/messages/adapters/memory"
	msgapp "github.com/pawledger/registry-api/internal/domains/messages/application"
	ordermemory "github.com/pawledger/registry-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/pawledger/registry-api/internal/domains/orders/application"
	regmemory "github.com/pawledger/registry-api/internal/domains/registrations/adapters/memory"
	"github.com/pawledger/registry-api/internal/domains/registrations/adapters/provisioning"
	regworkflows "github.com/pawledger/registry-api/internal/domains/registrations/adapters/workflows"
	regapp "github.com/pawledger/registry-api/internal/domains/registrations/application"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
	repapp "github.com/pawledger/registry-api/internal/domains/reporting/application"
	"github.com/pawledger/registry-api/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestRegistryProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateRegistrationExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedRegistration(t, pacttest.ExistingRegistrationNumber)
			}
			return nil, nil
		},
		pacttest.StateRegistrationGone: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	registrations *regmemory.Repository
	server        *httptest.Server
	seeded        []string
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	custRepo := custmemory.NewRepository()
	custService := custapp.NewService(custRepo)

	serviceRepo := catmemory.NewServiceRepository()
	couponRepo := catmemory.NewCouponRepository()
	reviewRepo := catmemory.NewReviewRepository(
		catmemory.WithCustomerLookup(custRepo.DisplayLookup),
		catmemory.WithServiceNameLookup(serviceRepo.NameLookup),
	)
	catService := catapp.NewService(serviceRepo, couponRepo, reviewRepo)

	orderRepo := ordermemory.NewRepository(ordermemory.WithCustomerLookup(custRepo.DisplayLookup))
	orderService := orderapp.NewService(orderRepo, ordermemory.NewSequence())

	regRepo := regmemory.NewRepository(regmemory.WithCustomerLookup(custRepo.DisplayLookup))
	regService := regapp.NewService(regRepo)
	provisioner := regapp.NewProvisioner(
		regRepo,
		regmemory.NewSequence(),
		provisioning.NewDirectory(custService, custRepo),
		provisioning.NewOrderBook(orderService, orderRepo),
	)

	msgRepo := msgmemory.NewRepository()
	msgService := msgapp.NewService(msgRepo)

	reporting := repapp.NewService(orderRepo, regRepo, msgRepo, custRepo, serviceRepo, couponRepo, reviewRepo)

	router := server.NewRouter(server.Options{
		Orders:        orderService,
		Registrations: regService,
		Provisioning:  regworkflows.NewInlineProvisioning(provisioner),
		Customers:     custService,
		Messages:      msgService,
		Catalog:       catService,
		Reporting:     reporting,
		AdminTokens:   map[string]string{pacttest.AdminToken: pacttest.AdminSubject},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &contractProviderApp{
		registrations: regRepo,
		server:        srv,
	}
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	for _, id := range a.seeded {
		_ = a.registrations.Remove(context.Background(), id)
	}
	a.seeded = nil
}

func (a *contractProviderApp) seedRegistration(t testing.TB, number string) {
	t.Helper()
	now := time.Now().UTC()
	registration := &regdomain.Registration{
		ID:                 "pact-" + number,
		RegistrationNumber: number,
		CustomerID:         "pact-customer-1",
		PetName:            "Waffles",
		PetSpecies:         "dog",
		PetBreed:           "golden retriever",
		HandlerName:        "Pact Owner",
		Type:               regdomain.TypeESA,
		Status:             regdomain.StatusActive,
		IsPublic:           true,
		RegistrationDate:   now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, a.registrations.Create(context.Background(), registration))
	a.seeded = append(a.seeded, registration.ID)
}
