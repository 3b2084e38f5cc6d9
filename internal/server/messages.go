package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	msgports "github.com/pawledger/registry-api/internal/domains/messages/ports"
)

type messagesAPI struct {
	service msgports.Service
}

type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// Post /api/contact
// Public contact form.
func (api *messagesAPI) Submit(c *gin.Context) {
	var payload contactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	message, err := api.service.Submit(c.Request.Context(), msgtypes.SubmitInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Body:    payload.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": message.ID, "status": message.Status})
}

// Get /api/admin/messages
func (api *messagesAPI) List(c *gin.Context) {
	result, err := api.service.List(c.Request.Context(), msgtypes.ListInput{
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

// Get /api/admin/messages/:id
func (api *messagesAPI) Get(c *gin.Context) {
	message, err := api.service.Get(c.Request.Context(), msgtypes.GetInput{
		Caller:    callerFrom(c),
		MessageID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

type messageStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// Patch /api/admin/messages/:id/status
func (api *messagesAPI) SetStatus(c *gin.Context) {
	var payload messageStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	message, err := api.service.SetStatus(c.Request.Context(), msgtypes.SetStatusInput{
		Caller:    callerFrom(c),
		MessageID: c.Param("id"),
		Status:    payload.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// Patch /api/admin/messages/:id/notes
func (api *messagesAPI) SetNotes(c *gin.Context) {
	var payload notesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	message, err := api.service.SetAdminNotes(c.Request.Context(), msgtypes.SetNotesInput{
		Caller:    callerFrom(c),
		MessageID: c.Param("id"),
		Notes:     payload.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

type assignPayload struct {
	AssignedTo string `json:"assignedTo"`
}

// Patch /api/admin/messages/:id/assign
func (api *messagesAPI) Assign(c *gin.Context) {
	var payload assignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	message, err := api.service.Assign(c.Request.Context(), msgtypes.AssignInput{
		Caller:     callerFrom(c),
		MessageID:  c.Param("id"),
		AssignedTo: payload.AssignedTo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}
