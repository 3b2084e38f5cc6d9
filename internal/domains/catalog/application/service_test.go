package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pawledger/registry-api/internal/domains/catalog/adapters/memory"
	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

var admin = identity.Caller{Subject: "admin-1", Role: identity.RoleAdmin}

type catalogFixture struct {
	svc      *Service
	services *memory.ServiceRepository
	coupons  *memory.CouponRepository
	reviews  *memory.ReviewRepository
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	services := memory.NewServiceRepository()
	coupons := memory.NewCouponRepository()
	reviews := memory.NewReviewRepository(memory.WithServiceNameLookup(services.NameLookup))
	return &catalogFixture{
		svc:      NewService(services, coupons, reviews),
		services: services,
		coupons:  coupons,
		reviews:  reviews,
	}
}

func esaPackage() cattypes.ServiceFields {
	return cattypes.ServiceFields{
		Name:        "ESA Registration Package",
		Description: "Lifetime ESA registration with printed certificate",
		Price:       79.99,
		Currency:    "USD",
		Features:    []string{"certificate", "id-card"},
		Tags:        []string{"esa"},
		Active:      true,
	}
}

func TestCreateAndUpdateService(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	created, err := fx.svc.CreateService(ctx, cattypes.CreateServiceInput{Caller: admin, ServiceFields: esaPackage()})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.True(t, created.Active)

	fields := esaPackage()
	fields.Price = 99.99
	fields.Featured = true
	updated, err := fx.svc.UpdateService(ctx, cattypes.UpdateServiceInput{
		Caller:        admin,
		ServiceID:     created.ID,
		ServiceFields: fields,
	})
	require.NoError(t, err)
	require.Equal(t, 99.99, updated.Price)
	require.True(t, updated.Featured)

	bad := esaPackage()
	bad.Price = -1
	_, err = fx.svc.CreateService(ctx, cattypes.CreateServiceInput{Caller: admin, ServiceFields: bad})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.svc.CreateService(ctx, cattypes.CreateServiceInput{ServiceFields: esaPackage()})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestListServices_ActiveOnlyHidesDeactivated(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	first, err := fx.svc.CreateService(ctx, cattypes.CreateServiceInput{Caller: admin, ServiceFields: esaPackage()})
	require.NoError(t, err)
	psd := esaPackage()
	psd.Name = "PSD Registration Package"
	_, err = fx.svc.CreateService(ctx, cattypes.CreateServiceInput{Caller: admin, ServiceFields: psd})
	require.NoError(t, err)

	_, err = fx.svc.SetServiceActive(ctx, cattypes.SetServiceActiveInput{Caller: admin, ServiceID: first.ID})
	require.NoError(t, err)

	page, err := fx.svc.ListServices(ctx, cattypes.ListServicesInput{Caller: admin})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	page, err = fx.svc.ListServices(ctx, cattypes.ListServicesInput{Caller: admin, ActiveOnly: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "PSD Registration Package", page.Data[0].Name)
}

func TestCoupons_CodesAreNormalizedAndUnique(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	coupon, err := fx.svc.CreateCoupon(ctx, cattypes.CreateCouponInput{
		Caller: admin,
		CouponFields: cattypes.CouponFields{
			Code:          " spring20 ",
			DiscountType:  "percentage",
			DiscountValue: 20,
			Active:        true,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "SPRING20", coupon.Code)

	_, err = fx.svc.CreateCoupon(ctx, cattypes.CreateCouponInput{
		Caller: admin,
		CouponFields: cattypes.CouponFields{
			Code:          "SPRING20",
			DiscountType:  "fixed",
			DiscountValue: 5,
		},
	})
	require.ErrorIs(t, err, ports.ErrDuplicateCode)

	_, err = fx.svc.CreateCoupon(ctx, cattypes.CreateCouponInput{
		Caller: admin,
		CouponFields: cattypes.CouponFields{
			Code:          "TOOMUCH",
			DiscountType:  "percentage",
			DiscountValue: 150,
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	deactivated, err := fx.svc.SetCouponActive(ctx, cattypes.SetCouponActiveInput{Caller: admin, CouponID: coupon.ID})
	require.NoError(t, err)
	require.False(t, deactivated.Active)
}

func TestUpdateCoupon_RejectsInvertedValidityWindow(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	coupon, err := fx.svc.CreateCoupon(ctx, cattypes.CreateCouponInput{
		Caller: admin,
		CouponFields: cattypes.CouponFields{
			Code:          "WINTER10",
			DiscountType:  "fixed",
			DiscountValue: 10,
		},
	})
	require.NoError(t, err)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(-time.Hour)
	_, err = fx.svc.UpdateCoupon(ctx, cattypes.UpdateCouponInput{
		Caller:   admin,
		CouponID: coupon.ID,
		CouponFields: cattypes.CouponFields{
			Code:          "WINTER10",
			DiscountType:  "fixed",
			DiscountValue: 10,
			ValidFrom:     &from,
			ValidUntil:    &until,
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewModeration(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	service, err := fx.svc.CreateService(ctx, cattypes.CreateServiceInput{Caller: admin, ServiceFields: esaPackage()})
	require.NoError(t, err)

	require.NoError(t, fx.reviews.Create(ctx, &domain.Review{
		ID:         "rev-1",
		CustomerID: "c-1",
		ServiceID:  service.ID,
		Rating:     5,
		Title:      "Fast and painless",
		Body:       "Certificate arrived in three days.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	published, err := fx.svc.SetReviewPublished(ctx, cattypes.SetReviewPublishedInput{
		Caller:    admin,
		ReviewID:  "rev-1",
		Published: true,
	})
	require.NoError(t, err)
	require.True(t, published.Published)

	responded, err := fx.svc.RespondToReview(ctx, cattypes.RespondToReviewInput{
		Caller:   admin,
		ReviewID: "rev-1",
		Response: "Thanks for the kind words!",
	})
	require.NoError(t, err)
	require.Equal(t, "Thanks for the kind words!", responded.AdminResponse)

	hidden := false
	page, err := fx.svc.ListReviews(ctx, cattypes.ListReviewsInput{Caller: admin, Published: &hidden})
	require.NoError(t, err)
	require.EqualValues(t, 0, page.Total)

	shown := true
	page, err = fx.svc.ListReviews(ctx, cattypes.ListReviewsInput{Caller: admin, Published: &shown})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "ESA Registration Package", page.Data[0].ServiceName)

	_, err = fx.svc.SetReviewPublished(ctx, cattypes.SetReviewPublishedInput{ReviewID: "rev-1"})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}
