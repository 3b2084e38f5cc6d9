package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	regpostgres "github.com/pawledger/registry-api/internal/domains/registrations/adapters/persistence/postgres"
	platformpostgres "github.com/pawledger/registry-api/internal/platform/postgres"
)

// One-shot job that marks active registrations past their expiry date as
// expired. Intended to run from cron.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot sweep expirations")
	}

	repo := regpostgres.NewRepository(db)
	expired, err := repo.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("failed to sweep expired registrations: %v", err)
	}
	log.Printf("expiry sweep completed, %d registrations expired", expired)
}
