package ports

import (
	"context"

	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// Service exposes the catalog back-office use cases.
type Service interface {
	CreateService(ctx context.Context, input cattypes.CreateServiceInput) (*domain.Service, error)
	UpdateService(ctx context.Context, input cattypes.UpdateServiceInput) (*domain.Service, error)
	SetServiceActive(ctx context.Context, input cattypes.SetServiceActiveInput) (*domain.Service, error)
	SetServiceFeatured(ctx context.Context, input cattypes.SetServiceFeaturedInput) (*domain.Service, error)
	ListServices(ctx context.Context, input cattypes.ListServicesInput) (query.PageResult[domain.Service], error)
	GetService(ctx context.Context, input cattypes.GetServiceInput) (*domain.Service, error)

	CreateCoupon(ctx context.Context, input cattypes.CreateCouponInput) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, input cattypes.UpdateCouponInput) (*domain.Coupon, error)
	SetCouponActive(ctx context.Context, input cattypes.SetCouponActiveInput) (*domain.Coupon, error)
	ListCoupons(ctx context.Context, input cattypes.ListCouponsInput) (query.PageResult[domain.Coupon], error)
	GetCoupon(ctx context.Context, input cattypes.GetCouponInput) (*domain.Coupon, error)

	SetReviewPublished(ctx context.Context, input cattypes.SetReviewPublishedInput) (*domain.Review, error)
	RespondToReview(ctx context.Context, input cattypes.RespondToReviewInput) (*domain.Review, error)
	ListReviews(ctx context.Context, input cattypes.ListReviewsInput) (query.PageResult[cattypes.ReviewRow], error)
}
