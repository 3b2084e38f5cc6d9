package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	orderdomain "github.com/pawledger/registry-api/internal/domains/orders/domain"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
)

type ordersAPI struct {
	service orderports.Service
}

// Get /api/admin/orders
func (api *ordersAPI) List(c *gin.Context) {
	result, err := api.service.List(c.Request.Context(), ordertypes.ListInput{
		Caller: callerFrom(c),
		Page:   pageRequest(c),
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/admin/orders/:id
func (api *ordersAPI) Get(c *gin.Context) {
	detail, err := api.service.Get(c.Request.Context(), ordertypes.GetInput{
		Caller:  callerFrom(c),
		OrderID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type changeOrderStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// Patch /api/admin/orders/:id/status
func (api *ordersAPI) ChangeStatus(c *gin.Context) {
	var payload changeOrderStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.ChangeStatus(c.Request.Context(), ordertypes.ChangeStatusInput{
		Caller:  callerFrom(c),
		OrderID: c.Param("id"),
		Status:  orderdomain.Status(payload.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type notesPayload struct {
	Notes string `json:"notes"`
}

// Patch /api/admin/orders/:id/notes
func (api *ordersAPI) SetNotes(c *gin.Context) {
	var payload notesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.SetAdminNotes(c.Request.Context(), ordertypes.SetNotesInput{
		Caller:  callerFrom(c),
		OrderID: c.Param("id"),
		Notes:   payload.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
