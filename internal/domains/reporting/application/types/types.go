package types

import (
	"time"

	"github.com/pawledger/registry-api/internal/shared/identity"
)

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	Customers            int64   `json:"customers"`
	Orders               int64   `json:"orders"`
	Registrations        int64   `json:"registrations"`
	PendingRegistrations int64   `json:"pendingRegistrations"`
	Messages             int64   `json:"messages"`
	UnreadMessages       int64   `json:"unreadMessages"`
	Reviews              int64   `json:"reviews"`
	ActiveServices       int64   `json:"activeServices"`
	ActiveCoupons        int64   `json:"activeCoupons"`
	DeliveredRevenue     float64 `json:"deliveredRevenue"`
}

// ActivityKind tags an entry in the recent-activity feed.
type ActivityKind string

const (
	ActivityOrder        ActivityKind = "order"
	ActivityRegistration ActivityKind = "registration"
	ActivityMessage      ActivityKind = "message"
)

// ActivityItem is one row of the recent-activity feed.
type ActivityItem struct {
	Kind       ActivityKind `json:"kind"`
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Status     string       `json:"status"`
	OccurredAt time.Time    `json:"occurredAt"`
}

type StatsInput struct {
	Caller identity.Caller
}

type ActivityInput struct {
	Caller identity.Caller
}
