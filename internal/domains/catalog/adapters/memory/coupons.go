package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.CouponRepository = (*CouponRepository)(nil)

// CouponRepository is the in-memory coupon persistence adapter.
type CouponRepository struct {
	mu       sync.RWMutex
	coupons  map[string]*domain.Coupon
	inserted map[string]int
	seq      int
}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{
		coupons:  map[string]*domain.Coupon{},
		inserted: map[string]int{},
	}
}

var couponSortColumns = map[string]string{
	"created_at": "created_at",
	"code":       "code",
}

func (r *CouponRepository) Create(_ context.Context, coupon *domain.Coupon) error {
	if coupon == nil {
		return errors.New("coupon is nil")
	}
	if err := coupon.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coupons {
		if existing.Code == coupon.Code {
			return ports.ErrDuplicateCode
		}
	}
	clone := *coupon
	r.seq++
	r.coupons[clone.ID] = &clone
	r.inserted[clone.ID] = r.seq
	return nil
}

func (r *CouponRepository) Update(_ context.Context, coupon *domain.Coupon) error {
	if coupon == nil {
		return errors.New("coupon is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[coupon.ID]; !ok {
		return ports.ErrNotFound
	}
	for _, existing := range r.coupons {
		if existing.ID != coupon.ID && existing.Code == coupon.Code {
			return ports.ErrDuplicateCode
		}
	}
	clone := *coupon
	r.coupons[clone.ID] = &clone
	return nil
}

func (r *CouponRepository) GetByID(_ context.Context, id string) (*domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *coupon
	return &clone, nil
}

func (r *CouponRepository) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	normalized := domain.NormalizeCode(code)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, coupon := range r.coupons {
		if coupon.Code == normalized {
			clone := *coupon
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *CouponRepository) SetActive(_ context.Context, id string, active bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return ports.ErrNotFound
	}
	coupon.Active = active
	coupon.UpdatedAt = now
	return nil
}

func (r *CouponRepository) ListPage(_ context.Context, filter ports.CouponListFilter) (query.PageResult[domain.Coupon], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]domain.Coupon, 0, len(r.coupons))
	for _, coupon := range r.coupons {
		if !query.MatchesSearch(req.Search, coupon.Code, coupon.Description) {
			continue
		}
		rows = append(rows, *coupon)
	}
	r.sortCoupons(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *CouponRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, coupon := range r.coupons {
		if coupon.Active {
			n++
		}
	}
	return n, nil
}

func (r *CouponRepository) sortCoupons(rows []domain.Coupon, req query.PageRequest) {
	switch req.SortColumn(couponSortColumns) {
	case "code":
		query.SortStable(rows, req.Descending(), func(a, b domain.Coupon) bool {
			return a.Code < b.Code
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b domain.Coupon) bool {
			return r.olderCoupon(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b domain.Coupon) bool {
			return r.olderCoupon(a, b)
		})
	}
}

func (r *CouponRepository) olderCoupon(a, b domain.Coupon) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
