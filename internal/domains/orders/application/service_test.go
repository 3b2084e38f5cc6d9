package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pawledger/registry-api/internal/domains/orders/adapters/memory"
	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var admin = identity.Caller{Subject: "admin-1", Role: identity.RoleAdmin}

func newTestService(t *testing.T, opts ...memory.Option) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository(opts...)
	var ids int
	svc := NewService(repo, memory.NewSequence(),
		WithClock(func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("id-%03d", ids)
		}),
	)
	return svc, repo
}

func seedOrder(t *testing.T, repo *memory.Repository, id string, status domain.Status, created time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Order{
		ID:          id,
		OrderNumber: "ORD-" + id,
		CustomerID:  "c-1",
		Status:      status,
		TotalAmount: 49.99,
		Currency:    "USD",
		CreatedAt:   created,
		UpdatedAt:   created,
	}, nil)
	require.NoError(t, err)
}

func TestChangeStatus_WalksTheFulfillmentSequence(t *testing.T) {
	svc, repo := newTestService(t)
	seedOrder(t, repo, "o-1", domain.StatusPending, time.Now())

	ctx := context.Background()

	// pending -> shipped is not a direct edge.
	_, err := svc.ChangeStatus(ctx, ordertypes.ChangeStatusInput{Caller: admin, OrderID: "o-1", Status: domain.StatusShipped})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, domain.StatusPending, invalid.From)
	require.Equal(t, domain.StatusShipped, invalid.To)

	for _, status := range []domain.Status{domain.StatusPaid, domain.StatusProcessing, domain.StatusShipped} {
		order, err := svc.ChangeStatus(ctx, ordertypes.ChangeStatusInput{Caller: admin, OrderID: "o-1", Status: status})
		require.NoError(t, err)
		require.Equal(t, status, order.Status)
	}

	// shipped cannot regress to paid.
	_, err = svc.ChangeStatus(ctx, ordertypes.ChangeStatusInput{Caller: admin, OrderID: "o-1", Status: domain.StatusPaid})
	require.ErrorAs(t, err, &invalid)
}

func TestChangeStatus_RequiresAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	seedOrder(t, repo, "o-1", domain.StatusPending, time.Now())

	_, err := svc.ChangeStatus(context.Background(), ordertypes.ChangeStatusInput{OrderID: "o-1", Status: domain.StatusPaid})
	require.ErrorIs(t, err, identity.ErrUnauthorized)

	_, err = svc.ChangeStatus(context.Background(), ordertypes.ChangeStatusInput{
		Caller:  identity.Caller{Subject: "u-1", Role: identity.RoleCustomer},
		OrderID: "o-1",
		Status:  domain.StatusPaid,
	})
	require.ErrorIs(t, err, identity.ErrForbidden)
	order, err := repo.GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, order.Status)
}

func TestChangeStatus_UnknownStatusAndOrder(t *testing.T) {
	svc, repo := newTestService(t)
	seedOrder(t, repo, "o-1", domain.StatusPending, time.Now())

	_, err := svc.ChangeStatus(context.Background(), ordertypes.ChangeStatusInput{Caller: admin, OrderID: "o-1", Status: "teleported"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ChangeStatus(context.Background(), ordertypes.ChangeStatusInput{Caller: admin, OrderID: "o-404", Status: domain.StatusPaid})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateStatus_LostRaceSurfacesConflict(t *testing.T) {
	_, repo := newTestService(t)
	seedOrder(t, repo, "o-1", domain.StatusPending, time.Now())

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(context.Background(), "o-1", domain.StatusPending, domain.StatusPaid, now))
	// Second writer still expects pending.
	err := repo.UpdateStatus(context.Background(), "o-1", domain.StatusPending, domain.StatusCancelled, now)
	require.ErrorIs(t, err, ports.ErrConflict)

	order, err := repo.GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, order.Status)
}

func TestSetAdminNotes(t *testing.T) {
	svc, repo := newTestService(t)
	seedOrder(t, repo, "o-1", domain.StatusPending, time.Now())

	order, err := svc.SetAdminNotes(context.Background(), ordertypes.SetNotesInput{Caller: admin, OrderID: "o-1", Notes: "call customer back"})
	require.NoError(t, err)
	require.Equal(t, "call customer back", order.AdminNotes)
	require.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), order.UpdatedAt)
}

func TestList_FiltersSearchesAndSorts(t *testing.T) {
	lookup := func(customerID string) (string, string) {
		if customerID == "c-1" {
			return "Dana Walker", "dana@example.com"
		}
		return "", ""
	}
	svc, repo := newTestService(t, memory.WithCustomerLookup(lookup))
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, repo, "o-1", domain.StatusPending, base)
	seedOrder(t, repo, "o-2", domain.StatusPaid, base.Add(time.Hour))
	seedOrder(t, repo, "o-3", domain.StatusPaid, base.Add(2*time.Hour))

	ctx := context.Background()

	// Default ordering is newest first.
	page, err := svc.List(ctx, ordertypes.ListInput{Caller: admin})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	require.Equal(t, "o-3", page.Data[0].ID)
	require.Equal(t, "Dana Walker", page.Data[0].CustomerName)

	// Exact status filter.
	page, err = svc.List(ctx, ordertypes.ListInput{Caller: admin, Status: "paid"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	_, err = svc.List(ctx, ordertypes.ListInput{Caller: admin, Status: "limbo"})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Case-insensitive search against the joined customer name.
	for _, term := range []string{"DANA", "dana"} {
		page, err = svc.List(ctx, ordertypes.ListInput{Caller: admin, Page: query.PageRequest{Search: term}})
		require.NoError(t, err)
		require.EqualValues(t, 3, page.Total)
	}

	// Sort toggling on order_number.
	asc, err := svc.List(ctx, ordertypes.ListInput{Caller: admin, Page: query.PageRequest{SortBy: "order_number", SortOrder: query.SortAsc}})
	require.NoError(t, err)
	desc, err := svc.List(ctx, ordertypes.ListInput{Caller: admin, Page: query.PageRequest{SortBy: "order_number", SortOrder: query.SortDesc}})
	require.NoError(t, err)
	require.Equal(t, "o-1", asc.Data[0].ID)
	require.Equal(t, "o-3", desc.Data[0].ID)
}

func TestList_LastAndBeyondLastPage(t *testing.T) {
	svc, repo := newTestService(t)
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedOrder(t, repo, fmt.Sprintf("o-%d", i), domain.StatusPending, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.List(context.Background(), ordertypes.ListInput{Caller: admin, Page: query.PageRequest{Page: 3, PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.EqualValues(t, 5, page.Total)
	require.Equal(t, 3, page.TotalPages)

	page, err = svc.List(context.Background(), ordertypes.ListInput{Caller: admin, Page: query.PageRequest{Page: 9, PageSize: 2}})
	require.NoError(t, err)
	require.Empty(t, page.Data)
	require.EqualValues(t, 5, page.Total)
}

func TestCreateComplimentary(t *testing.T) {
	svc, repo := newTestService(t)

	result, err := svc.CreateComplimentary(context.Background(), ordertypes.CreateComplimentaryInput{
		Caller:     admin,
		CustomerID: "c-9",
		ServiceID:  "svc-1",
	})
	require.NoError(t, err)
	require.Equal(t, "ORD-000001", result.OrderNumber)

	order, err := repo.GetByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, order.Status)
	require.Zero(t, order.TotalAmount)
	require.NotNil(t, order.CompletedAt)

	detail, err := repo.Detail(context.Background(), result.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	require.Equal(t, result.OrderItemID, detail.Items[0].ID)
	require.Zero(t, detail.Items[0].UnitPrice)
	require.Zero(t, detail.Items[0].TotalPrice)

	_, err = svc.CreateComplimentary(context.Background(), ordertypes.CreateComplimentaryInput{Caller: admin, ServiceID: "svc-1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}
