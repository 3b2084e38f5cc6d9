package types

import (
	"time"

	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// ReviewRow is the moderation listing projection with display joins.
type ReviewRow struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	ServiceID     string    `json:"serviceId"`
	ServiceName   string    `json:"serviceName"`
	Rating        int32     `json:"rating"`
	Title         string    `json:"title"`
	Published     bool      `json:"published"`
	AdminResponse string    `json:"adminResponse,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ServiceFields carries the editable attributes of a catalog service.
type ServiceFields struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Features    []string
	Tags        []string
	Active      bool
	Featured    bool
}

type CreateServiceInput struct {
	Caller identity.Caller
	ServiceFields
}

type UpdateServiceInput struct {
	Caller    identity.Caller
	ServiceID string
	ServiceFields
}

type SetServiceActiveInput struct {
	Caller    identity.Caller
	ServiceID string
	Active    bool
}

type SetServiceFeaturedInput struct {
	Caller    identity.Caller
	ServiceID string
	Featured  bool
}

type ListServicesInput struct {
	Caller identity.Caller
	Page   query.PageRequest
	// ActiveOnly hides deactivated services from the listing.
	ActiveOnly bool
}

type GetServiceInput struct {
	Caller    identity.Caller
	ServiceID string
}

// CouponFields carries the editable attributes of a coupon.
type CouponFields struct {
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	Active        bool
}

type CreateCouponInput struct {
	Caller identity.Caller
	CouponFields
}

type UpdateCouponInput struct {
	Caller   identity.Caller
	CouponID string
	CouponFields
}

type SetCouponActiveInput struct {
	Caller   identity.Caller
	CouponID string
	Active   bool
}

type ListCouponsInput struct {
	Caller identity.Caller
	Page   query.PageRequest
}

type GetCouponInput struct {
	Caller   identity.Caller
	CouponID string
}

type SetReviewPublishedInput struct {
	Caller    identity.Caller
	ReviewID  string
	Published bool
}

type RespondToReviewInput struct {
	Caller   identity.Caller
	ReviewID string
	Response string
}

type ListReviewsInput struct {
	Caller identity.Caller
	Page   query.PageRequest
	// Published filters moderation state when set.
	Published *bool
}
