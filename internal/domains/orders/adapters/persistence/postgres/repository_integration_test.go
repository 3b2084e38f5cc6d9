//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/platform/migrations"
	"github.com/pawledger/registry-api/internal/shared/query"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func insertOrder(t *testing.T, repo *Repository, id, number, customerID string, status domain.Status) {
	t.Helper()
	now := time.Now().UTC()
	err := repo.Create(context.Background(), &domain.Order{
		ID:          id,
		OrderNumber: number,
		CustomerID:  customerID,
		Status:      status,
		TotalAmount: 25,
		Currency:    "USD",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil)
	require.NoError(t, err)
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	insertOrder(t, repo, "o-1", "ORD-000001", "c-1", domain.StatusPending)

	fetched, err := repo.GetByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-000001", fetched.OrderNumber)
	assert.Equal(t, domain.StatusPending, fetched.Status)

	_, err = repo.GetByID(ctx, "o-404")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateStatusIsCompareAndSwap(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	insertOrder(t, repo, "o-1", "ORD-000001", "c-1", domain.StatusPending)

	require.NoError(t, repo.UpdateStatus(ctx, "o-1", domain.StatusPending, domain.StatusPaid, now))

	err := repo.UpdateStatus(ctx, "o-1", domain.StatusPending, domain.StatusCancelled, now)
	assert.ErrorIs(t, err, ports.ErrConflict)

	err = repo.UpdateStatus(ctx, "o-404", domain.StatusPending, domain.StatusPaid, now)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	fetched, err := repo.GetByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, fetched.Status)
}

func TestRepository_ListPagePaginatesAndSearches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		insertOrder(t, repo, fmt.Sprintf("o-%d", i), fmt.Sprintf("ORD-%06d", i), "c-1", domain.StatusPending)
	}

	page, err := repo.ListPage(ctx, ports.ListFilter{Page: query.PageRequest{Page: 3, PageSize: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page, err = repo.ListPage(ctx, ports.ListFilter{Page: query.PageRequest{Search: "ord-000003"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "o-3", page.Data[0].ID)
	// Missing profile rows coalesce instead of failing the join.
	assert.Empty(t, page.Data[0].CustomerName)
}

func TestSequence_NextOrderNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	seq := NewSequence(db)
	first, err := seq.NextOrderNumber(context.Background())
	require.NoError(t, err)
	second, err := seq.NextOrderNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-000001", first)
	assert.Equal(t, "ORD-000002", second)
}
