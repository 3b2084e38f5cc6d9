// Package server wires the gin transport onto the bounded-context services.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catports "github.com/pawledger/registry-api/internal/domains/catalog/ports"
	custports "github.com/pawledger/registry-api/internal/domains/customers/ports"
	msgports "github.com/pawledger/registry-api/internal/domains/messages/ports"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	repports "github.com/pawledger/registry-api/internal/domains/reporting/ports"
)

// Options carries everything the router needs. Provisioning goes through the
// workflow orchestrator so the durable path is the default.
type Options struct {
	Orders        orderports.Service
	Registrations regports.Service
	Provisioning  regports.WorkflowOrchestrator
	Customers     custports.Service
	Messages      msgports.Service
	Catalog       catports.Service
	Reporting     repports.Service

	// AdminTokens maps bearer tokens to the admin subject they authenticate.
	AdminTokens map[string]string

	// Middleware is appended to the engine before routes, e.g. otelgin.
	Middleware []gin.HandlerFunc
}

// NewRouter builds the HTTP API: a public surface (health, verification,
// contact form) and a bearer-token-guarded admin surface.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	for _, mw := range opts.Middleware {
		if mw != nil {
			router.Use(mw)
		}
	}

	orders := ordersAPI{service: opts.Orders}
	registrations := registrationsAPI{service: opts.Registrations, provisioning: opts.Provisioning}
	customers := customersAPI{service: opts.Customers}
	messages := messagesAPI{service: opts.Messages}
	catalog := catalogAPI{service: opts.Catalog}
	reporting := reportingAPI{service: opts.Reporting}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	{
		public.GET("/verify/:registrationNumber", registrations.Verify)
		public.POST("/contact", messages.Submit)
	}

	admin := router.Group("/api/admin", RequireBearerToken(opts.AdminTokens))
	{
		admin.GET("/dashboard/stats", reporting.Stats)
		admin.GET("/dashboard/activity", reporting.RecentActivity)

		admin.GET("/orders", orders.List)
		admin.GET("/orders/:id", orders.Get)
		admin.PATCH("/orders/:id/status", orders.ChangeStatus)
		admin.PATCH("/orders/:id/notes", orders.SetNotes)

		admin.GET("/registrations", registrations.List)
		admin.POST("/registrations", registrations.Provision)
		admin.GET("/registrations/:id", registrations.Get)
		admin.POST("/registrations/:id/approve", registrations.Approve)
		admin.POST("/registrations/:id/reject", registrations.Reject)
		admin.POST("/registrations/:id/suspend", registrations.Suspend)
		admin.PATCH("/registrations/:id/notes", registrations.SetNotes)

		admin.GET("/customers", customers.List)
		admin.GET("/customers/:id", customers.Get)

		admin.GET("/messages", messages.List)
		admin.GET("/messages/:id", messages.Get)
		admin.PATCH("/messages/:id/status", messages.SetStatus)
		admin.PATCH("/messages/:id/notes", messages.SetNotes)
		admin.PATCH("/messages/:id/assign", messages.Assign)

		admin.GET("/services", catalog.ListServices)
		admin.POST("/services", catalog.CreateService)
		admin.GET("/services/:id", catalog.GetService)
		admin.PUT("/services/:id", catalog.UpdateService)
		admin.PATCH("/services/:id/active", catalog.SetServiceActive)
		admin.PATCH("/services/:id/featured", catalog.SetServiceFeatured)

		admin.GET("/coupons", catalog.ListCoupons)
		admin.POST("/coupons", catalog.CreateCoupon)
		admin.GET("/coupons/:id", catalog.GetCoupon)
		admin.PUT("/coupons/:id", catalog.UpdateCoupon)
		admin.PATCH("/coupons/:id/active", catalog.SetCouponActive)

		admin.GET("/reviews", catalog.ListReviews)
		admin.PATCH("/reviews/:id/published", catalog.SetReviewPublished)
		admin.PATCH("/reviews/:id/response", catalog.RespondToReview)
	}

	return router
}
