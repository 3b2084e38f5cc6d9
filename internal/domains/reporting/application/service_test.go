package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catmemory "github.com/pawledger/registry-api/internal/domains/catalog/adapters/memory"
	catdomain "github.com/pawledger/registry-api/internal/domains/catalog/domain"
	custmemory "github.com/pawledger/registry-api/internal/domains/customers/adapters/memory"
	msgmemory "github.com/pawledger/registry-api/internal/domains/messages/adapters/memory"
	msgdomain "github.com/pawledger/registry-api/internal/domains/messages/domain"
	ordermemory "github.com/pawledger/registry-api/internal/domains/orders/adapters/memory"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	regmemory "github.com/pawledger/registry-api/internal/domains/registrations/adapters/memory"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
	reptypes "github.com/pawledger/registry-api/internal/domains/reporting/application/types"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

var admin = identity.Caller{Subject: "admin-1", Role: identity.RoleAdmin}

type reportingFixture struct {
	svc           *Service
	orders        *ordermemory.Repository
	registrations *regmemory.Repository
	messages      *msgmemory.Repository
	customers     *custmemory.Repository
	services      *catmemory.ServiceRepository
	coupons       *catmemory.CouponRepository
	reviews       *catmemory.ReviewRepository
}

func newReportingFixture(t *testing.T) *reportingFixture {
	t.Helper()
	fx := &reportingFixture{
		orders:        ordermemory.NewRepository(),
		registrations: regmemory.NewRepository(),
		messages:      msgmemory.NewRepository(),
		customers:     custmemory.NewRepository(),
		services:      catmemory.NewServiceRepository(),
		coupons:       catmemory.NewCouponRepository(),
		reviews:       catmemory.NewReviewRepository(),
	}
	fx.svc = NewService(fx.orders, fx.registrations, fx.messages, fx.customers, fx.services, fx.coupons, fx.reviews)
	return fx
}

func (fx *reportingFixture) seedOrder(t *testing.T, id string, status orderdomain.Status, amount float64, at time.Time) {
	t.Helper()
	require.NoError(t, fx.orders.Create(context.Background(), &orderdomain.Order{
		ID:          id,
		OrderNumber: "ORD-" + id,
		CustomerID:  "c-1",
		Status:      status,
		TotalAmount: amount,
		Currency:    "USD",
		CreatedAt:   at,
		UpdatedAt:   at,
	}, nil))
}

func (fx *reportingFixture) seedRegistration(t *testing.T, id string, status regdomain.Status, at time.Time) {
	t.Helper()
	require.NoError(t, fx.registrations.Create(context.Background(), &regdomain.Registration{
		ID:                 id,
		RegistrationNumber: "ESA-" + id,
		CustomerID:         "c-1",
		PetName:            "Biscuit",
		PetSpecies:         "dog",
		PetBreed:           "labrador",
		HandlerName:        "Dana Walker",
		Type:               regdomain.TypeESA,
		Status:             status,
		IsPublic:           true,
		RegistrationDate:   at,
		CreatedAt:          at,
		UpdatedAt:          at,
	}))
}

func (fx *reportingFixture) seedMessage(t *testing.T, id string, status msgdomain.Status, at time.Time) {
	t.Helper()
	require.NoError(t, fx.messages.Create(context.Background(), &msgdomain.Message{
		ID:        id,
		Name:      "Dana Walker",
		Email:     "dana@example.com",
		Subject:   "subject " + id,
		Body:      "body",
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}))
}

func TestStats_CollectsAllCounters(t *testing.T) {
	fx := newReportingFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	fx.seedOrder(t, "o-1", orderdomain.StatusDelivered, 100, now)
	fx.seedOrder(t, "o-2", orderdomain.StatusDelivered, 50, now.Add(time.Minute))
	fx.seedOrder(t, "o-3", orderdomain.StatusPending, 75, now.Add(2*time.Minute))

	fx.seedRegistration(t, "r-1", regdomain.StatusPendingReview, now)
	fx.seedRegistration(t, "r-2", regdomain.StatusActive, now.Add(time.Minute))

	fx.seedMessage(t, "m-1", msgdomain.StatusNew, now)
	fx.seedMessage(t, "m-2", msgdomain.StatusUnread, now.Add(time.Minute))
	fx.seedMessage(t, "m-3", msgdomain.StatusClosed, now.Add(2*time.Minute))

	require.NoError(t, fx.services.Create(ctx, &catdomain.Service{
		ID: "svc-1", Name: "ESA Package", Currency: "USD", Active: true,
	}))
	require.NoError(t, fx.services.Create(ctx, &catdomain.Service{
		ID: "svc-2", Name: "Retired Package", Currency: "USD",
	}))
	require.NoError(t, fx.coupons.Create(ctx, &catdomain.Coupon{
		ID: "cp-1", Code: "SPRING20", DiscountType: catdomain.DiscountPercentage, DiscountValue: 20, Active: true,
	}))
	require.NoError(t, fx.reviews.Create(ctx, &catdomain.Review{
		ID: "rev-1", CustomerID: "c-1", ServiceID: "svc-1", Rating: 5,
	}))

	stats, err := fx.svc.Stats(ctx, reptypes.StatsInput{Caller: admin})
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.Orders)
	require.EqualValues(t, 2, stats.Registrations)
	require.EqualValues(t, 1, stats.PendingRegistrations)
	require.EqualValues(t, 3, stats.Messages)
	require.EqualValues(t, 2, stats.UnreadMessages)
	require.EqualValues(t, 1, stats.Reviews)
	require.EqualValues(t, 1, stats.ActiveServices)
	require.EqualValues(t, 1, stats.ActiveCoupons)
	require.Equal(t, 150.0, stats.DeliveredRevenue)

	_, err = fx.svc.Stats(ctx, reptypes.StatsInput{})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestRecentActivity_MergesNewestFirstAndCaps(t *testing.T) {
	fx := newReportingFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Six of each; only five per source enter the merge and the merged feed
	// is capped at ten.
	for i := 0; i < 6; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		fx.seedOrder(t, fmt.Sprintf("o-%d", i), orderdomain.StatusPending, 10, at)
		fx.seedRegistration(t, fmt.Sprintf("r-%d", i), regdomain.StatusPendingReview, at.Add(time.Second))
		fx.seedMessage(t, fmt.Sprintf("m-%d", i), msgdomain.StatusNew, at.Add(2*time.Second))
	}

	feed, err := fx.svc.RecentActivity(ctx, reptypes.ActivityInput{Caller: admin})
	require.NoError(t, err)
	require.Len(t, feed, 10)

	for i := 1; i < len(feed); i++ {
		require.False(t, feed[i].OccurredAt.After(feed[i-1].OccurredAt))
	}

	// The newest row overall is the latest message.
	require.Equal(t, reptypes.ActivityMessage, feed[0].Kind)
	require.Equal(t, "m-5", feed[0].ID)

	_, err = fx.svc.RecentActivity(ctx, reptypes.ActivityInput{})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}
