package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	oapitypes "github.com/oapi-codegen/runtime/types"

	regapp "github.com/pawledger/registry-api/internal/domains/registrations/application"
	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	regdomain "github.com/pawledger/registry-api/internal/domains/registrations/domain"
	regports "github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

type registrationsAPI struct {
	service      regports.Service
	provisioning regports.WorkflowOrchestrator
}

// Get /api/admin/registrations
func (api *registrationsAPI) List(c *gin.Context) {
	result, err := api.service.List(c.Request.Context(), regtypes.ListInput{
		Caller: callerFrom(c),
		Page:   pageRequest(c),
		Status: c.Query("status"),
		Type:   c.Query("type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/admin/registrations/:id
func (api *registrationsAPI) Get(c *gin.Context) {
	registration, err := api.service.Get(c.Request.Context(), regtypes.GetInput{
		Caller:         callerFrom(c),
		RegistrationID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, registration)
}

// Post /api/admin/registrations/:id/approve
func (api *registrationsAPI) Approve(c *gin.Context) {
	api.action(c, api.service.Approve)
}

// Post /api/admin/registrations/:id/reject
func (api *registrationsAPI) Reject(c *gin.Context) {
	api.action(c, api.service.Reject)
}

// Post /api/admin/registrations/:id/suspend
func (api *registrationsAPI) Suspend(c *gin.Context) {
	api.action(c, api.service.Suspend)
}

func (api *registrationsAPI) action(c *gin.Context, call func(context.Context, regtypes.ActionInput) (*regdomain.Registration, error)) {
	registration, err := call(c.Request.Context(), regtypes.ActionInput{
		Caller:         callerFrom(c),
		RegistrationID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, registration)
}

// Patch /api/admin/registrations/:id/notes
func (api *registrationsAPI) SetNotes(c *gin.Context) {
	var payload notesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	registration, err := api.service.SetAdminNotes(c.Request.Context(), regtypes.SetNotesInput{
		Caller:         callerFrom(c),
		RegistrationID: c.Param("id"),
		Notes:          payload.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, registration)
}

// Get /api/verify/:registrationNumber
// Public lookup; resolves only public, active registrations.
func (api *registrationsAPI) Verify(c *gin.Context) {
	verified, err := api.service.Verify(c.Request.Context(), regtypes.VerifyInput{
		RegistrationNumber: c.Param("registrationNumber"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verified)
}

// provisionPayload is the administrative creation body. Date-only fields bind
// as RFC 3339 full-date values.
type provisionPayload struct {
	Email            string          `json:"email"`
	FullName         string          `json:"fullName"`
	PetName          string          `json:"petName"`
	PetBreed         string          `json:"petBreed"`
	PetSpecies       string          `json:"petSpecies"`
	RegistrationType string          `json:"registrationType"`
	ServiceID        string          `json:"serviceId"`
	PetColor         string          `json:"petColor"`
	PetWeightKg      *float64        `json:"petWeightKg"`
	PetDateOfBirth   *oapitypes.Date `json:"petDateOfBirth"`
	PetPhotoURL      string          `json:"petPhotoUrl"`
	ExpiryDate       *oapitypes.Date `json:"expiryDate"`
	RegistrationDate *oapitypes.Date `json:"registrationDate"`
	AdminNotes       string          `json:"adminNotes"`
	Locale           string          `json:"locale"`
}

// Post /api/admin/registrations
// Creates customer, order, and registration in one step. This endpoint keeps
// the plain {error} envelope of the admin console it serves.
func (api *registrationsAPI) Provision(c *gin.Context) {
	var payload provisionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input := regtypes.ProvisionInput{
		Caller:           callerFrom(c),
		Email:            payload.Email,
		FullName:         payload.FullName,
		PetName:          payload.PetName,
		PetBreed:         payload.PetBreed,
		PetSpecies:       payload.PetSpecies,
		RegistrationType: payload.RegistrationType,
		ServiceID:        payload.ServiceID,
		PetColor:         payload.PetColor,
		PetWeightKg:      payload.PetWeightKg,
		PetDateOfBirth:   dateToTime(payload.PetDateOfBirth),
		PetPhotoURL:      payload.PetPhotoURL,
		ExpiryDate:       dateToTime(payload.ExpiryDate),
		RegistrationDate: dateToTime(payload.RegistrationDate),
		AdminNotes:       payload.AdminNotes,
		Locale:           payload.Locale,
	}
	result, err := api.provisioning.ProvisionRegistration(c.Request.Context(), input)
	if err != nil {
		c.JSON(provisionStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func provisionStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, regapp.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		// ErrProvisionFailed and anything unrecognized: the step message
		// stays in the body.
		return http.StatusInternalServerError
	}
}

func dateToTime(d *oapitypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
