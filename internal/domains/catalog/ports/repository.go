package ports

import (
	"context"
	"errors"
	"time"

	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var (
	ErrNotFound      = errors.New("catalog record not found")
	ErrDuplicateCode = errors.New("coupon code already exists")
)

type ServiceListFilter struct {
	Page       query.PageRequest
	ActiveOnly bool
}

type CouponListFilter struct {
	Page query.PageRequest
}

type ReviewListFilter struct {
	Page      query.PageRequest
	Published *bool
}

// ServiceRepository persists catalog services.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	SetActive(ctx context.Context, id string, active bool, now time.Time) error
	SetFeatured(ctx context.Context, id string, featured bool, now time.Time) error
	ListPage(ctx context.Context, filter ServiceListFilter) (query.PageResult[domain.Service], error)
	CountActive(ctx context.Context) (int64, error)
}

// CouponRepository persists discount coupons. Codes are unique.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	GetByID(ctx context.Context, id string) (*domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	SetActive(ctx context.Context, id string, active bool, now time.Time) error
	ListPage(ctx context.Context, filter CouponListFilter) (query.PageResult[domain.Coupon], error)
	CountActive(ctx context.Context) (int64, error)
}

// ReviewRepository persists customer reviews for moderation.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	SetPublished(ctx context.Context, id string, published bool, now time.Time) error
	SetAdminResponse(ctx context.Context, id string, response string, now time.Time) error
	ListPage(ctx context.Context, filter ReviewListFilter) (query.PageResult[cattypes.ReviewRow], error)
	CountAll(ctx context.Context) (int64, error)
}
