package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reptypes "github.com/pawledger/registry-api/internal/domains/reporting/application/types"
	repports "github.com/pawledger/registry-api/internal/domains/reporting/ports"
)

type reportingAPI struct {
	service repports.Service
}

// Get /api/admin/dashboard/stats
func (api *reportingAPI) Stats(c *gin.Context) {
	stats, err := api.service.Stats(c.Request.Context(), reptypes.StatsInput{Caller: callerFrom(c)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get /api/admin/dashboard/activity
func (api *reportingAPI) RecentActivity(c *gin.Context) {
	feed, err := api.service.RecentActivity(c.Request.Context(), reptypes.ActivityInput{Caller: callerFrom(c)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": feed})
}
