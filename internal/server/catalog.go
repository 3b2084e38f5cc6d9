package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	oapitypes "github.com/oapi-codegen/runtime/types"

	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	catports "github.com/pawledger/registry-api/internal/domains/catalog/ports"
)

type catalogAPI struct {
	service catports.Service
}

type servicePayload struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency" binding:"required"`
	Features    []string `json:"features"`
	Tags        []string `json:"tags"`
	Active      bool     `json:"active"`
	Featured    bool     `json:"featured"`
}

func (p servicePayload) fields() cattypes.ServiceFields {
	return cattypes.ServiceFields{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Features:    p.Features,
		Tags:        p.Tags,
		Active:      p.Active,
		Featured:    p.Featured,
	}
}

// Post /api/admin/services
func (api *catalogAPI) CreateService(c *gin.Context) {
	var payload servicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	service, err := api.service.CreateService(c.Request.Context(), cattypes.CreateServiceInput{
		Caller:        callerFrom(c),
		ServiceFields: payload.fields(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// Put /api/admin/services/:id
func (api *catalogAPI) UpdateService(c *gin.Context) {
	var payload servicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	service, err := api.service.UpdateService(c.Request.Context(), cattypes.UpdateServiceInput{
		Caller:        callerFrom(c),
		ServiceID:     c.Param("id"),
		ServiceFields: payload.fields(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

type activePayload struct {
	Active bool `json:"active"`
}

// Patch /api/admin/services/:id/active
func (api *catalogAPI) SetServiceActive(c *gin.Context) {
	var payload activePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	service, err := api.service.SetServiceActive(c.Request.Context(), cattypes.SetServiceActiveInput{
		Caller:    callerFrom(c),
		ServiceID: c.Param("id"),
		Active:    payload.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

type featuredPayload struct {
	Featured bool `json:"featured"`
}

// Patch /api/admin/services/:id/featured
func (api *catalogAPI) SetServiceFeatured(c *gin.Context) {
	var payload featuredPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	service, err := api.service.SetServiceFeatured(c.Request.Context(), cattypes.SetServiceFeaturedInput{
		Caller:    callerFrom(c),
		ServiceID: c.Param("id"),
		Featured:  payload.Featured,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// Get /api/admin/services
func (api *catalogAPI) ListServices(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("activeOnly"))
	result, err := api.service.ListServices(c.Request.Context(), cattypes.ListServicesInput{
		Caller:     callerFrom(c),
		Page:       pageRequest(c),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/admin/services/:id
func (api *catalogAPI) GetService(c *gin.Context) {
	service, err := api.service.GetService(c.Request.Context(), cattypes.GetServiceInput{
		Caller:    callerFrom(c),
		ServiceID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

type couponPayload struct {
	Code          string          `json:"code" binding:"required"`
	Description   string          `json:"description"`
	DiscountType  string          `json:"discountType" binding:"required"`
	DiscountValue float64         `json:"discountValue" binding:"required"`
	ValidFrom     *oapitypes.Date `json:"validFrom"`
	ValidUntil    *oapitypes.Date `json:"validUntil"`
	Active        bool            `json:"active"`
}

func (p couponPayload) fields() cattypes.CouponFields {
	return cattypes.CouponFields{
		Code:          p.Code,
		Description:   p.Description,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		ValidFrom:     dateToTime(p.ValidFrom),
		ValidUntil:    dateToTime(p.ValidUntil),
		Active:        p.Active,
	}
}

// Post /api/admin/coupons
func (api *catalogAPI) CreateCoupon(c *gin.Context) {
	var payload couponPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	coupon, err := api.service.CreateCoupon(c.Request.Context(), cattypes.CreateCouponInput{
		Caller:       callerFrom(c),
		CouponFields: payload.fields(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Put /api/admin/coupons/:id
func (api *catalogAPI) UpdateCoupon(c *gin.Context) {
	var payload couponPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	coupon, err := api.service.UpdateCoupon(c.Request.Context(), cattypes.UpdateCouponInput{
		Caller:       callerFrom(c),
		CouponID:     c.Param("id"),
		CouponFields: payload.fields(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Patch /api/admin/coupons/:id/active
func (api *catalogAPI) SetCouponActive(c *gin.Context) {
	var payload activePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	coupon, err := api.service.SetCouponActive(c.Request.Context(), cattypes.SetCouponActiveInput{
		Caller:   callerFrom(c),
		CouponID: c.Param("id"),
		Active:   payload.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Get /api/admin/coupons
func (api *catalogAPI) ListCoupons(c *gin.Context) {
	result, err := api.service.ListCoupons(c.Request.Context(), cattypes.ListCouponsInput{
		Caller: callerFrom(c),
		Page:   pageRequest(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/admin/coupons/:id
func (api *catalogAPI) GetCoupon(c *gin.Context) {
	coupon, err := api.service.GetCoupon(c.Request.Context(), cattypes.GetCouponInput{
		Caller:   callerFrom(c),
		CouponID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Get /api/admin/reviews
func (api *catalogAPI) ListReviews(c *gin.Context) {
	input := cattypes.ListReviewsInput{
		Caller: callerFrom(c),
		Page:   pageRequest(c),
	}
	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			responder.BadRequest(c, "published must be a boolean")
			return
		}
		input.Published = &published
	}
	result, err := api.service.ListReviews(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type publishedPayload struct {
	Published bool `json:"published"`
}

// Patch /api/admin/reviews/:id/published
func (api *catalogAPI) SetReviewPublished(c *gin.Context) {
	var payload publishedPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	review, err := api.service.SetReviewPublished(c.Request.Context(), cattypes.SetReviewPublishedInput{
		Caller:    callerFrom(c),
		ReviewID:  c.Param("id"),
		Published: payload.Published,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

type responsePayload struct {
	Response string `json:"response"`
}

// Patch /api/admin/reviews/:id/response
func (api *catalogAPI) RespondToReview(c *gin.Context) {
	var payload responsePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	review, err := api.service.RespondToReview(c.Request.Context(), cattypes.RespondToReviewInput{
		Caller:   callerFrom(c),
		ReviewID: c.Param("id"),
		Response: payload.Response,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
