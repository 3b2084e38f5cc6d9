package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.CouponRepository = (*CouponRepository)(nil)

// CouponRepository persists coupons in PostgreSQL using GORM.
type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

type couponRecord struct {
	ID            string     `gorm:"primaryKey;column:id;size:36"`
	Code          string     `gorm:"column:code;uniqueIndex"`
	Description   string     `gorm:"column:description"`
	DiscountType  string     `gorm:"column:discount_type;type:varchar(16)"`
	DiscountValue float64    `gorm:"column:discount_value"`
	ValidFrom     *time.Time `gorm:"column:valid_from"`
	ValidUntil    *time.Time `gorm:"column:valid_until"`
	Active        bool       `gorm:"column:active;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (couponRecord) TableName() string { return "coupons" }

var couponSortColumns = map[string]string{
	"created_at": "coupons.created_at",
	"code":       "coupons.code",
}

func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if coupon == nil {
		return errors.New("coupon is nil")
	}
	record := toCouponRecord(coupon)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if coupon == nil {
		return errors.New("coupon is nil")
	}
	record := toCouponRecord(coupon)
	result := r.db.WithContext(ctx).Model(&couponRecord{}).
		Where("id = ?", coupon.ID).
		Select("*").Omit("id", "created_at").
		Updates(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateCode
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record couponRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record couponRecord
	if err := r.db.WithContext(ctx).First(&record, "code = ?", domain.NormalizeCode(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *CouponRepository) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&couponRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": active, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *CouponRepository) ListPage(ctx context.Context, filter ports.CouponListFilter) (query.PageResult[domain.Coupon], error) {
	var empty query.PageResult[domain.Coupon]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("coupons")
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where("coupons.code ILIKE ? OR coupons.description ILIKE ?", pattern, pattern)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "coupons.created_at DESC"
	if column := req.SortColumn(couponSortColumns); column != "" {
		ordering = column + " ASC"
		if req.Descending() {
			ordering = column + " DESC"
		}
	}
	var records []couponRecord
	if err := base.Session(&gorm.Session{}).
		Order(ordering).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&records).Error; err != nil {
		return empty, err
	}
	rows := make([]domain.Coupon, 0, len(records))
	for _, record := range records {
		rows = append(rows, *record.toDomain())
	}
	return query.NewPageResult(rows, total, req), nil
}

func (r *CouponRepository) CountActive(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&couponRecord{}).Where("active").Count(&total).Error
	return total, err
}

func (r *CouponRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres coupon repository not configured")
	}
	return nil
}

func toCouponRecord(coupon *domain.Coupon) couponRecord {
	return couponRecord{
		ID:            coupon.ID,
		Code:          coupon.Code,
		Description:   coupon.Description,
		DiscountType:  string(coupon.DiscountType),
		DiscountValue: coupon.DiscountValue,
		ValidFrom:     coupon.ValidFrom,
		ValidUntil:    coupon.ValidUntil,
		Active:        coupon.Active,
		CreatedAt:     coupon.CreatedAt,
		UpdatedAt:     coupon.UpdatedAt,
	}
}

func (r couponRecord) toDomain() *domain.Coupon {
	return &domain.Coupon{
		ID:            r.ID,
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  domain.DiscountType(r.DiscountType),
		DiscountValue: r.DiscountValue,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
