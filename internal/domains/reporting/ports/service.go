package ports

import (
	"context"

	reptypes "github.com/pawledger/registry-api/internal/domains/reporting/application/types"
)

// Service exposes the dashboard queries.
type Service interface {
	Stats(ctx context.Context, input reptypes.StatsInput) (*reptypes.DashboardStats, error)
	RecentActivity(ctx context.Context, input reptypes.ActivityInput) ([]reptypes.ActivityItem, error)
}
