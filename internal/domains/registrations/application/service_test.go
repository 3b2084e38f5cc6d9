package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pawledger/registry-api/internal/domains/registrations/adapters/memory"
	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var admin = identity.Caller{Subject: "admin-1", Role: identity.RoleAdmin}

func seedRegistration(t *testing.T, repo *memory.Repository, id string, status domain.Status, mutate ...func(*domain.Registration)) {
	t.Helper()
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	registration := &domain.Registration{
		ID:                 id,
		RegistrationNumber: "ESA-" + id,
		CustomerID:         "c-1",
		PetName:            "Biscuit",
		PetSpecies:         "dog",
		PetBreed:           "labrador",
		HandlerName:        "Dana Walker",
		Type:               domain.TypeESA,
		Status:             status,
		IsPublic:           true,
		RegistrationDate:   now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, m := range mutate {
		m(registration)
	}
	require.NoError(t, repo.Create(context.Background(), registration))
}

func TestApproveRejectSuspend_FollowTheTable(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)
	ctx := context.Background()

	seedRegistration(t, repo, "r-1", domain.StatusPendingReview)
	approved, err := svc.Approve(ctx, regtypes.ActionInput{Caller: admin, RegistrationID: "r-1"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, approved.Status)

	// Approving an already-active registration is rejected, never silently
	// forced.
	_, err = svc.Approve(ctx, regtypes.ActionInput{Caller: admin, RegistrationID: "r-1"})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	suspended, err := svc.Suspend(ctx, regtypes.ActionInput{Caller: admin, RegistrationID: "r-1"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuspended, suspended.Status)

	seedRegistration(t, repo, "r-2", domain.StatusPendingReview)
	rejected, err := svc.Reject(ctx, regtypes.ActionInput{Caller: admin, RegistrationID: "r-2"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusRevoked, rejected.Status)

	// Suspend is only legal from active.
	_, err = svc.Suspend(ctx, regtypes.ActionInput{Caller: admin, RegistrationID: "r-2"})
	require.ErrorAs(t, err, &invalid)
}

func TestApprove_RequiresAdmin(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)
	seedRegistration(t, repo, "r-1", domain.StatusPendingReview)

	_, err := svc.Approve(context.Background(), regtypes.ActionInput{RegistrationID: "r-1"})
	require.ErrorIs(t, err, identity.ErrUnauthorized)

	_, err = svc.Approve(context.Background(), regtypes.ActionInput{
		Caller:         identity.Caller{Subject: "u-1", Role: identity.RoleCustomer},
		RegistrationID: "r-1",
	})
	require.ErrorIs(t, err, identity.ErrForbidden)
}

func TestConcurrentApprove_ExactlyOneWinner(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)
	seedRegistration(t, repo, "r-1", domain.StatusPendingReview)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(context.Background(), regtypes.ActionInput{Caller: admin, RegistrationID: "r-1"})
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		// Losers observe either the CAS conflict or, if they read after the
		// winner committed, an invalid transition.
		var invalid *domain.InvalidTransitionError
		if !errors.As(err, &invalid) {
			require.ErrorIs(t, err, ports.ErrConflict)
		}
	}
	require.Equal(t, 1, wins)

	final, err := repo.GetByID(context.Background(), "r-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, final.Status)
}

func TestVerify_OnlyPublicActiveResolve(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)
	ctx := context.Background()

	seedRegistration(t, repo, "r-1", domain.StatusActive)
	seedRegistration(t, repo, "r-2", domain.StatusActive, func(r *domain.Registration) {
		r.IsPublic = false
	})
	seedRegistration(t, repo, "r-3", domain.StatusSuspended)

	verified, err := svc.Verify(ctx, regtypes.VerifyInput{RegistrationNumber: "ESA-r-1"})
	require.NoError(t, err)
	require.Equal(t, "Biscuit", verified.PetName)
	require.Equal(t, domain.TypeESA, verified.Type)

	_, err = svc.Verify(ctx, regtypes.VerifyInput{RegistrationNumber: "ESA-r-2"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.Verify(ctx, regtypes.VerifyInput{RegistrationNumber: "ESA-r-3"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.Verify(ctx, regtypes.VerifyInput{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_FiltersByStatusAndType(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)
	ctx := context.Background()

	seedRegistration(t, repo, "r-1", domain.StatusPendingReview)
	seedRegistration(t, repo, "r-2", domain.StatusActive)
	seedRegistration(t, repo, "r-3", domain.StatusActive, func(r *domain.Registration) {
		r.Type = domain.TypePSD
		r.RegistrationNumber = "PSD-r-3"
	})

	page, err := svc.List(ctx, regtypes.ListInput{Caller: admin, Status: "active"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	page, err = svc.List(ctx, regtypes.ListInput{Caller: admin, Type: "psd"})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "r-3", page.Data[0].ID)

	_, err = svc.List(ctx, regtypes.ListInput{Caller: admin, Status: "archived"})
	require.ErrorIs(t, err, ErrInvalidInput)

	page, err = svc.List(ctx, regtypes.ListInput{Caller: admin, Page: query.PageRequest{Search: "biscuit"}})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
}

func TestExpireDue_SweepsOnlyActivePastExpiry(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	seedRegistration(t, repo, "r-1", domain.StatusActive, func(r *domain.Registration) { r.ExpiryDate = &past })
	seedRegistration(t, repo, "r-2", domain.StatusActive, func(r *domain.Registration) { r.ExpiryDate = &future })
	seedRegistration(t, repo, "r-3", domain.StatusSuspended, func(r *domain.Registration) { r.ExpiryDate = &past })
	seedRegistration(t, repo, "r-4", domain.StatusActive)

	expired, err := repo.ExpireDue(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, expired)

	r1, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusExpired, r1.Status)

	for _, id := range []string{"r-2", "r-4"} {
		r, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, r.Status)
	}
}
