package application

import (
	"context"
	"fmt"
	"sort"

	msgdomain "github.com/pawledger/registry-api/internal/domains/messages/domain"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
	reptypes "github.com/pawledger/registry-api/internal/domains/reporting/application/types"
	"github.com/pawledger/registry-api/internal/domains/reporting/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

// recentPerSource caps how many rows each collection contributes to the feed;
// the merged feed itself is capped at feedLimit.
const (
	recentPerSource = 5
	feedLimit       = 10
)

// Service aggregates the dashboard view over the other contexts' read models.
type Service struct {
	orders        ports.OrderSource
	registrations ports.RegistrationSource
	messages      ports.MessageSource
	customers     ports.CustomerSource
	services      ports.ServiceSource
	coupons       ports.CouponSource
	reviews       ports.ReviewSource
}

func NewService(
	orders ports.OrderSource,
	registrations ports.RegistrationSource,
	messages ports.MessageSource,
	customers ports.CustomerSource,
	services ports.ServiceSource,
	coupons ports.CouponSource,
	reviews ports.ReviewSource,
) *Service {
	return &Service{
		orders:        orders,
		registrations: registrations,
		messages:      messages,
		customers:     customers,
		services:      services,
		coupons:       coupons,
		reviews:       reviews,
	}
}

// Stats collects the dashboard counters. Unread counts both new and unread
// messages; revenue sums delivered orders.
func (s *Service) Stats(ctx context.Context, input reptypes.StatsInput) (*reptypes.DashboardStats, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	stats := &reptypes.DashboardStats{}
	var err error
	if stats.Customers, err = s.customers.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if stats.Orders, err = s.orders.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if stats.Registrations, err = s.registrations.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if stats.PendingRegistrations, err = s.registrations.CountByStatus(ctx, regdomain.StatusPendingReview); err != nil {
		return nil, fmt.Errorf("count pending registrations: %w", err)
	}
	if stats.Messages, err = s.messages.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	for _, status := range []msgdomain.Status{msgdomain.StatusNew, msgdomain.StatusUnread} {
		n, err := s.messages.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("count %s messages: %w", status, err)
		}
		stats.UnreadMessages += n
	}
	if stats.Reviews, err = s.reviews.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	if stats.ActiveServices, err = s.services.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count active services: %w", err)
	}
	if stats.ActiveCoupons, err = s.coupons.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count active coupons: %w", err)
	}
	if stats.DeliveredRevenue, err = s.orders.SumTotalByStatus(ctx, orderdomain.StatusDelivered); err != nil {
		return nil, fmt.Errorf("sum delivered revenue: %w", err)
	}
	return stats, nil
}

// RecentActivity merges the latest orders, registrations, and messages into
// one feed, newest first.
func (s *Service) RecentActivity(ctx context.Context, input reptypes.ActivityInput) ([]reptypes.ActivityItem, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	items := make([]reptypes.ActivityItem, 0, 3*recentPerSource)

	orders, err := s.orders.ListRecent(ctx, recentPerSource)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	for _, row := range orders {
		items = append(items, reptypes.ActivityItem{
			Kind:       reptypes.ActivityOrder,
			ID:         row.ID,
			Title:      row.OrderNumber,
			Status:     string(row.Status),
			OccurredAt: row.CreatedAt,
		})
	}

	registrations, err := s.registrations.ListRecent(ctx, recentPerSource)
	if err != nil {
		return nil, fmt.Errorf("recent registrations: %w", err)
	}
	for _, row := range registrations {
		items = append(items, reptypes.ActivityItem{
			Kind:       reptypes.ActivityRegistration,
			ID:         row.ID,
			Title:      row.RegistrationNumber,
			Status:     string(row.Status),
			OccurredAt: row.CreatedAt,
		})
	}

	messages, err := s.messages.ListRecent(ctx, recentPerSource)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	for _, row := range messages {
		items = append(items, reptypes.ActivityItem{
			Kind:       reptypes.ActivityMessage,
			ID:         row.ID,
			Title:      row.Subject,
			Status:     string(row.Status),
			OccurredAt: row.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > feedLimit {
		items = items[:feedLimit]
	}
	return items, nil
}

var _ ports.Service = (*Service)(nil)
