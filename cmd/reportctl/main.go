package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	catpostgres "github.com/pawledger/registry-api/internal/domains/catalog/adapters/persistence/postgres"
	custpostgres "github.com/pawledger/registry-api/internal/domains/customers/adapters/persistence/postgres"
	msgpostgres "github.com/pawledger/registry-api/internal/domains/messages/adapters/persistence/postgres"
	orderpostgres "github.com/pawledger/registry-api/internal/domains/orders/adapters/persistence/postgres"
	regpostgres "github.com/pawledger/registry-api/internal/domains/registrations/adapters/persistence/postgres"
	repapp "github.com/pawledger/registry-api/internal/domains/reporting/application"
	reptypes "github.com/pawledger/registry-api/internal/domains/reporting/application/types"
	platformpostgres "github.com/pawledger/registry-api/internal/platform/postgres"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

// reportctl prints the dashboard summary and the recent-activity feed to the
// terminal, for operators who prefer a shell over the admin UI.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot report")
	}

	reporting := repapp.NewService(
		orderpostgres.NewRepository(db),
		regpostgres.NewRepository(db),
		msgpostgres.NewRepository(db),
		custpostgres.NewRepository(db),
		catpostgres.NewServiceRepository(db),
		catpostgres.NewCouponRepository(db),
		catpostgres.NewReviewRepository(db),
	)
	caller := identity.System("reportctl")

	stats, err := reporting.Stats(ctx, reptypes.StatsInput{Caller: caller})
	if err != nil {
		log.Fatalf("failed to collect stats: %v", err)
	}
	feed, err := reporting.RecentActivity(ctx, reptypes.ActivityInput{Caller: caller})
	if err != nil {
		log.Fatalf("failed to collect activity: %v", err)
	}

	renderStats(stats)
	fmt.Println()
	renderActivity(feed)
}

func renderStats(stats *reptypes.DashboardStats) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Customers", strconv.FormatInt(stats.Customers, 10)},
		{"Orders", strconv.FormatInt(stats.Orders, 10)},
		{"Registrations", strconv.FormatInt(stats.Registrations, 10)},
		{"Pending registrations", strconv.FormatInt(stats.PendingRegistrations, 10)},
		{"Messages", strconv.FormatInt(stats.Messages, 10)},
		{"Unread messages", strconv.FormatInt(stats.UnreadMessages, 10)},
		{"Reviews", strconv.FormatInt(stats.Reviews, 10)},
		{"Active services", strconv.FormatInt(stats.ActiveServices, 10)},
		{"Active coupons", strconv.FormatInt(stats.ActiveCoupons, 10)},
		{"Delivered revenue", fmt.Sprintf("%.2f", stats.DeliveredRevenue)},
	}
	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
}

func renderActivity(feed []reptypes.ActivityItem) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("When", "Kind", "Title", "Status")
	for _, item := range feed {
		_ = table.Append([]string{
			item.OccurredAt.Local().Format(time.RFC3339),
			string(item.Kind),
			item.Title,
			item.Status,
		})
	}
	_ = table.Render()
}
