//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/platform/migrations"
)

func setupRegistrationsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("registry_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func insertRegistration(t *testing.T, repo *Repository, id, number string, status domain.Status, expiry *time.Time, public bool) {
	t.Helper()
	now := time.Now().UTC()
	err := repo.Create(context.Background(), &domain.Registration{
		ID:                 id,
		RegistrationNumber: number,
		CustomerID:         "c-1",
		PetName:            "Biscuit",
		PetSpecies:         "dog",
		PetBreed:           "labrador",
		HandlerName:        "Dana Walker",
		Type:               domain.TypeESA,
		Status:             status,
		IsPublic:           public,
		RegistrationDate:   now,
		ExpiryDate:         expiry,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	require.NoError(t, err)
}

func TestRepository_UpdateStatusIsCompareAndSwap(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupRegistrationsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	insertRegistration(t, repo, "r-1", "ESA-000001", domain.StatusPendingReview, nil, true)

	require.NoError(t, repo.UpdateStatus(ctx, "r-1", domain.StatusPendingReview, domain.StatusActive, now))

	// The losing admin still expects pending_review.
	err := repo.UpdateStatus(ctx, "r-1", domain.StatusPendingReview, domain.StatusRevoked, now)
	assert.ErrorIs(t, err, ports.ErrConflict)

	err = repo.UpdateStatus(ctx, "r-404", domain.StatusPendingReview, domain.StatusActive, now)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	fetched, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, fetched.Status)
}

func TestRepository_VerifyByNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupRegistrationsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	insertRegistration(t, repo, "r-1", "ESA-000001", domain.StatusActive, nil, true)
	insertRegistration(t, repo, "r-2", "ESA-000002", domain.StatusActive, nil, false)
	insertRegistration(t, repo, "r-3", "ESA-000003", domain.StatusRevoked, nil, true)

	verified, err := repo.VerifyByNumber(ctx, "ESA-000001")
	require.NoError(t, err)
	assert.Equal(t, "Biscuit", verified.PetName)

	_, err = repo.VerifyByNumber(ctx, "ESA-000002")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = repo.VerifyByNumber(ctx, "ESA-000003")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ExpireDue(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupRegistrationsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	insertRegistration(t, repo, "r-1", "ESA-000001", domain.StatusActive, &past, true)
	insertRegistration(t, repo, "r-2", "ESA-000002", domain.StatusActive, &future, true)
	insertRegistration(t, repo, "r-3", "ESA-000003", domain.StatusSuspended, &past, true)

	expired, err := repo.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	fetched, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, fetched.Status)
}

func TestSequence_TypePrefixes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupRegistrationsPostgresContainer(t)
	defer cleanup()

	seq := NewSequence(db)
	ctx := context.Background()

	esa, err := seq.NextRegistrationNumber(ctx, domain.TypeESA)
	require.NoError(t, err)
	psd, err := seq.NextRegistrationNumber(ctx, domain.TypePSD)
	require.NoError(t, err)
	assert.Equal(t, "ESA-000001", esa)
	assert.Equal(t, "PSD-000002", psd)

	_, err = seq.NextRegistrationNumber(ctx, "hamster")
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}
