package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	custmemory "github.com/pawledger/registry-api/internal/domains/customers/adapters/memory"
	custpostgres "github.com/pawledger/registry-api/internal/domains/customers/adapters/persistence/postgres"
	custapp "github.com/pawledger/registry-api/internal/domains/customers/application"
	custports "github.com/pawledger/registry-api/internal/domains/customers/ports"
	ordermemory "github.com/pawledger/registry-api/internal/domains/orders/adapters/memory"
	orderpostgres "github.com/pawledger/registry-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/pawledger/registry-api/internal/domains/orders/application"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
	regmemory "github.com/pawledger/registry-api/internal/domains/registrations/adapters/memory"
	regpostgres "github.com/pawledger/registry-api/internal/domains/registrations/adapters/persistence/postgres"
	"github.com/pawledger/registry-api/internal/domains/registrations/adapters/provisioning"
	regapp "github.com/pawledger/registry-api/internal/domains/registrations/application"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	platformmigrations "github.com/pawledger/registry-api/internal/platform/migrations"
	platformobservability "github.com/pawledger/registry-api/internal/platform/observability"
	platformpostgres "github.com/pawledger/registry-api/internal/platform/postgres"
	regactivities "github.com/pawledger/registry-api/internal/platform/temporal/activities/registrations"
	regworkflows "github.com/pawledger/registry-api/internal/platform/temporal/workflows/registrations"
)

func main() {
	ctx := context.Background()
	const serviceName = "registry-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	provisioner, cleanupRepos := buildProvisioner(ctx, logger)
	defer cleanupRepos()
	activities := regactivities.NewActivities(provisioner)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, regworkflows.ProvisioningTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(regworkflows.ProvisioningWorkflow, workflow.RegisterOptions{Name: regworkflows.ProvisioningWorkflowName})
	w.RegisterActivityWithOptions(activities.ProvisionRegistration, activity.RegisterOptions{Name: regactivities.ProvisionRegistrationActivityName})

	logger.Info("worker listening", slog.String("taskQueue", regworkflows.ProvisioningTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildProvisioner assembles the composite-creation dependencies on top of
// postgres, falling back to in-memory adapters when no DSN is configured so a
// local worker can still start.
func buildProvisioner(ctx context.Context, logger *slog.Logger) (regports.Provisioner, func()) {
	var (
		custRepo  custports.Repository
		orderRepo orderports.Repository
		orderSeq  orderports.NumberSequence
		regRepo   regports.Repository
		regSeq    regports.NumberSequence
		cleanup   = func() {}
	)

	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, worker falling back to in-memory repositories")
	} else if db, err := platformpostgres.Connect(ctx, dsn); err != nil {
		logger.Warn("worker failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
	} else if sqlDB, err := db.DB(); err != nil {
		logger.Warn("worker failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
	} else if err := platformmigrations.Run(db); err != nil {
		logger.Error("worker failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
	} else {
		logger.Info("worker repositories configured with postgres")
		custRepo = custpostgres.NewRepository(db)
		orderRepo = orderpostgres.NewRepository(db)
		orderSeq = orderpostgres.NewSequence(db)
		regRepo = regpostgres.NewRepository(db)
		regSeq = regpostgres.NewSequence(db)
		cleanup = func() { _ = sqlDB.Close() }
	}
	if custRepo == nil {
		custRepo = custmemory.NewRepository()
		orderRepo = ordermemory.NewRepository()
		orderSeq = ordermemory.NewSequence()
		regRepo = regmemory.NewRepository()
		regSeq = regmemory.NewSequence()
	}

	custService := custapp.NewService(custRepo)
	orderService := orderapp.NewService(orderRepo, orderSeq)
	provisioner := regapp.NewProvisioner(
		regRepo,
		regSeq,
		provisioning.NewDirectory(custService, custRepo),
		provisioning.NewOrderBook(orderService, orderRepo),
		regapp.WithProvisionerLogger(logger),
	)
	return provisioner, cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
