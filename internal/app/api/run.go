package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catmemory "github.com/pawledger/registry-api/internal/domains/catalog/adapters/memory"
	catpostgres "github.com/pawledger/registry-api/internal/domains/catalog/adapters/persistence/postgres"
	catapp "github.com/pawledger/registry-api/internal/domains/catalog/application"
	catports "github.com/pawledger/registry-api/internal/domains/catalog/ports"
	custmemory "github.com/pawledger/registry-api/internal/domains/customers/adapters/memory"
	custpostgres "github.com/pawledger/registry-api/internal/domains/customers/adapters/persistence/postgres"
	custapp "github.com/pawledger/registry-api/internal/domains/customers/application"
	custports "github.com/pawledger/registry-api/internal/domains/customers/ports"
	msgmemory "github.com/pawledger/registry-api/internal/domains/messages/adapters/memory"
	msgpostgres "github.com/pawledger/registry-api/internal/domains/messages/adapters/persistence/postgres"
	msgapp "github.com/pawledger/registry-api/internal/domains/messages/application"
	msgports "github.com/pawledger/registry-api/internal/domains/messages/ports"
	ordermemory "github.com/pawledger/registry-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/pawledger/registry-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/pawledger/registry-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/pawledger/registry-api/internal/domains/orders/application"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
	regmemory "github.com/pawledger/registry-api/internal/domains/registrations/adapters/memory"
	regobs "github.com/pawledger/registry-api/internal/domains/registrations/adapters/observability"
	regpostgres "github.com/pawledger/registry-api/internal/domains/registrations/adapters/persistence/postgres"
	"github.com/pawledger/registry-api/internal/domains/registrations/adapters/provisioning"
	regworkflows "github.com/pawledger/registry-api/internal/domains/registrations/adapters/workflows"
	regapp "github.com/pawledger/registry-api/internal/domains/registrations/application"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	repapp "github.com/pawledger/registry-api/internal/domains/reporting/application"
	platformmigrations "github.com/pawledger/registry-api/internal/platform/migrations"
	platformobservability "github.com/pawledger/registry-api/internal/platform/observability"
	platformpostgres "github.com/pawledger/registry-api/internal/platform/postgres"
	"github.com/pawledger/registry-api/internal/server"
)

const serviceName = "registry-api"

// Run boots the registry HTTP API with observability, repositories, and the
// provisioning workflow wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	custService := custapp.NewService(repos.customers)
	catService := catapp.NewService(repos.services, repos.coupons, repos.reviews)
	msgService := msgapp.NewService(repos.messages)

	orderService := orderobs.New(
		orderapp.NewService(repos.orders, repos.orderSequence),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	regService := regobs.New(
		regapp.NewService(repos.registrations),
		regobs.WithLogger(logger),
		regobs.WithTracer(instruments.Tracer("internal.registrations.application")),
		regobs.WithMeter(instruments.Meter("internal.registrations.application")),
	)

	provisioner := regapp.NewProvisioner(
		repos.registrations,
		repos.registrationSequence,
		provisioning.NewDirectory(custService, repos.customers),
		provisioning.NewOrderBook(orderService, repos.orders),
		regapp.WithProvisionerLogger(logger),
	)
	var orchestrator regports.WorkflowOrchestrator = regworkflows.NewInlineProvisioning(provisioner)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, provisioning runs inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = regworkflows.NewTemporalProvisioning(temporalClient)
		logger.Info("Temporal provisioning enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	reporting := repapp.NewService(
		repos.orders,
		repos.registrations,
		repos.messages,
		repos.customers,
		repos.services,
		repos.coupons,
		repos.reviews,
	)

	if len(cfg.AdminTokens) == 0 {
		logger.Warn("ADMIN_API_TOKENS not set, every admin endpoint will reject requests")
	}

	router := server.NewRouter(server.Options{
		Orders:        orderService,
		Registrations: regService,
		Provisioning:  orchestrator,
		Customers:     custService,
		Messages:      msgService,
		Catalog:       catService,
		Reporting:     reporting,
		AdminTokens:   cfg.AdminTokens,
		Middleware:    []gin.HandlerFunc{otelgin.Middleware(serviceName)},
	})

	addr := ":" + cfg.Port
	logger.Info("registry API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("registry API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// repositories collects every persistence port the services need, regardless
// of which backend produced them.
type repositories struct {
	orders               orderports.Repository
	orderSequence        orderports.NumberSequence
	registrations        regports.Repository
	registrationSequence regports.NumberSequence
	customers            custports.Repository
	messages             msgports.Repository
	services             catports.ServiceRepository
	coupons              catports.CouponRepository
	reviews              catports.ReviewRepository
}

// buildRepositories connects to PostgreSQL when a DSN is configured and falls
// back to the in-memory adapters otherwise, so the API stays runnable in
// development without a database.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return buildMemoryRepositories(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryRepositories(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryRepositories(), func() {}
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return buildMemoryRepositories(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return buildPostgresRepositories(db), func() { _ = sqlDB.Close() }
}

func buildPostgresRepositories(db *gorm.DB) repositories {
	return repositories{
		orders:               orderpostgres.NewRepository(db),
		orderSequence:        orderpostgres.NewSequence(db),
		registrations:        regpostgres.NewRepository(db),
		registrationSequence: regpostgres.NewSequence(db),
		customers:            custpostgres.NewRepository(db),
		messages:             msgpostgres.NewRepository(db),
		services:             catpostgres.NewServiceRepository(db),
		coupons:              catpostgres.NewCouponRepository(db),
		reviews:              catpostgres.NewReviewRepository(db),
	}
}

// buildMemoryRepositories wires the in-memory adapters together with the
// lookup hooks that stand in for the SQL joins. The customer repository and
// the order/registration repositories reference each other, so the customer
// lookups go through a late-bound pointer.
func buildMemoryRepositories() repositories {
	var custRepo *custmemory.Repository
	displayLookup := func(customerID string) (string, string) {
		if custRepo == nil {
			return "", ""
		}
		return custRepo.DisplayLookup(customerID)
	}

	serviceRepo := catmemory.NewServiceRepository()
	orderRepo := ordermemory.NewRepository(
		ordermemory.WithCustomerLookup(displayLookup),
		ordermemory.WithServiceNameLookup(serviceRepo.NameLookup),
	)
	regRepo := regmemory.NewRepository(regmemory.WithCustomerLookup(displayLookup))
	custRepo = custmemory.NewRepository(
		custmemory.WithOrderCounter(orderRepo.CountForCustomer),
		custmemory.WithRegistrationCounter(regRepo.CountForCustomer),
	)
	reviewRepo := catmemory.NewReviewRepository(
		catmemory.WithCustomerLookup(displayLookup),
		catmemory.WithServiceNameLookup(serviceRepo.NameLookup),
	)

	return repositories{
		orders:               orderRepo,
		orderSequence:        ordermemory.NewSequence(),
		registrations:        regRepo,
		registrationSequence: regmemory.NewSequence(),
		customers:            custRepo,
		messages:             msgmemory.NewRepository(),
		services:             serviceRepo,
		coupons:              catmemory.NewCouponRepository(),
		reviews:              reviewRepo,
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
