package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	custports "github.com/pawledger/registry-api/internal/domains/customers/ports"
)

type customersAPI struct {
	service custports.Service
}

// Get /api/admin/customers
func (api *customersAPI) List(c *gin.Context) {
	result, err := api.service.List(c.Request.Context(), custtypes.ListInput{
		Caller: callerFrom(c),
		Page:   pageRequest(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/admin/customers/:id
func (api *customersAPI) Get(c *gin.Context) {
	customer, err := api.service.Get(c.Request.Context(), custtypes.GetInput{
		Caller:     callerFrom(c),
		CustomerID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
