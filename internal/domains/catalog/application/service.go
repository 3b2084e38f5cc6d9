package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

// Service orchestrates the catalog back-office use cases.
type Service struct {
	services ports.ServiceRepository
	coupons  ports.CouponRepository
	reviews  ports.ReviewRepository
	clock    func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(services ports.ServiceRepository, coupons ports.CouponRepository, reviews ports.ReviewRepository, opts ...Option) *Service {
	s := &Service{
		services: services,
		coupons:  coupons,
		reviews:  reviews,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateService adds a new offering to the catalog.
func (s *Service) CreateService(ctx context.Context, input cattypes.CreateServiceInput) (*domain.Service, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	service := &domain.Service{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyServiceFields(service, input.ServiceFields, now)
	if err := service.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// UpdateService replaces the editable fields of a service.
func (s *Service) UpdateService(ctx context.Context, input cattypes.UpdateServiceInput) (*domain.Service, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	service, err := s.services.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	applyServiceFields(service, input.ServiceFields, s.clock().UTC())
	if err := service.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.services.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) SetServiceActive(ctx context.Context, input cattypes.SetServiceActiveInput) (*domain.Service, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.services.SetActive(ctx, input.ServiceID, input.Active, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.services.GetByID(ctx, input.ServiceID)
}

func (s *Service) SetServiceFeatured(ctx context.Context, input cattypes.SetServiceFeaturedInput) (*domain.Service, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.services.SetFeatured(ctx, input.ServiceID, input.Featured, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.services.GetByID(ctx, input.ServiceID)
}

func (s *Service) ListServices(ctx context.Context, input cattypes.ListServicesInput) (query.PageResult[domain.Service], error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return query.PageResult[domain.Service]{}, err
	}
	return s.services.ListPage(ctx, ports.ServiceListFilter{
		Page:       input.Page.Normalize(),
		ActiveOnly: input.ActiveOnly,
	})
}

func (s *Service) GetService(ctx context.Context, input cattypes.GetServiceInput) (*domain.Service, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.ServiceID == "" {
		return nil, fmt.Errorf("%w: service id is required", ErrInvalidInput)
	}
	return s.services.GetByID(ctx, input.ServiceID)
}

// CreateCoupon adds a discount code. Codes are stored normalized and must be
// unique.
func (s *Service) CreateCoupon(ctx context.Context, input cattypes.CreateCouponInput) (*domain.Coupon, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	coupon := &domain.Coupon{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCouponFields(coupon, input.CouponFields, now)
	if err := coupon.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.coupons.FindByCode(ctx, coupon.Code); err == nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrDuplicateCode, coupon.Code)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// UpdateCoupon replaces the editable fields of a coupon.
func (s *Service) UpdateCoupon(ctx context.Context, input cattypes.UpdateCouponInput) (*domain.Coupon, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	coupon, err := s.coupons.GetByID(ctx, input.CouponID)
	if err != nil {
		return nil, err
	}
	applyCouponFields(coupon, input.CouponFields, s.clock().UTC())
	if err := coupon.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if other, err := s.coupons.FindByCode(ctx, coupon.Code); err == nil && other.ID != coupon.ID {
		return nil, fmt.Errorf("%w: %s", ports.ErrDuplicateCode, coupon.Code)
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	if err := s.coupons.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *Service) SetCouponActive(ctx context.Context, input cattypes.SetCouponActiveInput) (*domain.Coupon, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.coupons.SetActive(ctx, input.CouponID, input.Active, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.coupons.GetByID(ctx, input.CouponID)
}

func (s *Service) ListCoupons(ctx context.Context, input cattypes.ListCouponsInput) (query.PageResult[domain.Coupon], error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return query.PageResult[domain.Coupon]{}, err
	}
	return s.coupons.ListPage(ctx, ports.CouponListFilter{Page: input.Page.Normalize()})
}

func (s *Service) GetCoupon(ctx context.Context, input cattypes.GetCouponInput) (*domain.Coupon, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.CouponID == "" {
		return nil, fmt.Errorf("%w: coupon id is required", ErrInvalidInput)
	}
	return s.coupons.GetByID(ctx, input.CouponID)
}

// SetReviewPublished toggles a review's storefront visibility.
func (s *Service) SetReviewPublished(ctx context.Context, input cattypes.SetReviewPublishedInput) (*domain.Review, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.reviews.SetPublished(ctx, input.ReviewID, input.Published, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, input.ReviewID)
}

// RespondToReview stores the shop's public reply under a review.
func (s *Service) RespondToReview(ctx context.Context, input cattypes.RespondToReviewInput) (*domain.Review, error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if err := s.reviews.SetAdminResponse(ctx, input.ReviewID, input.Response, s.clock().UTC()); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, input.ReviewID)
}

func (s *Service) ListReviews(ctx context.Context, input cattypes.ListReviewsInput) (query.PageResult[cattypes.ReviewRow], error) {
	if err := identity.RequireAdmin(input.Caller); err != nil {
		return query.PageResult[cattypes.ReviewRow]{}, err
	}
	return s.reviews.ListPage(ctx, ports.ReviewListFilter{
		Page:      input.Page.Normalize(),
		Published: input.Published,
	})
}

func applyServiceFields(service *domain.Service, fields cattypes.ServiceFields, now time.Time) {
	service.Name = fields.Name
	service.Description = fields.Description
	service.Price = fields.Price
	service.Currency = fields.Currency
	service.Features = fields.Features
	service.Tags = fields.Tags
	service.Active = fields.Active
	service.Featured = fields.Featured
	service.UpdatedAt = now
}

func applyCouponFields(coupon *domain.Coupon, fields cattypes.CouponFields, now time.Time) {
	coupon.Code = domain.NormalizeCode(fields.Code)
	coupon.Description = fields.Description
	coupon.DiscountType = domain.DiscountType(fields.DiscountType)
	coupon.DiscountValue = fields.DiscountValue
	coupon.ValidFrom = fields.ValidFrom
	coupon.ValidUntil = fields.ValidUntil
	coupon.Active = fields.Active
	coupon.UpdatedAt = now
}

var _ ports.Service = (*Service)(nil)
