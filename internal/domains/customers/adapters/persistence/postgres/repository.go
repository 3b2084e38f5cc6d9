package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	"github.com/pawledger/registry-api/internal/domains/customers/domain"
	"github.com/pawledger/registry-api/internal/domains/customers/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customer profiles in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type customerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	FullName  string    `gorm:"column:full_name"`
	Role      string    `gorm:"column:role;type:varchar(16)"`
	Locale    string    `gorm:"column:locale;type:varchar(8)"`
	AvatarURL string    `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "profiles" }

type rowRecord struct {
	ID                string
	Email             string
	FullName          string
	Role              string
	Locale            string
	OrderCount        int64
	RegistrationCount int64
	CreatedAt         time.Time
}

var sortColumns = map[string]string{
	"created_at": "profiles.created_at",
	"email":      "profiles.email",
	"full_name":  "profiles.full_name",
}

const rowSelect = `profiles.id, profiles.email, profiles.full_name, profiles.role,
profiles.locale, profiles.created_at,
(SELECT COUNT(*) FROM orders WHERE orders.customer_id = profiles.id) AS order_count,
(SELECT COUNT(*) FROM pet_registrations WHERE pet_registrations.customer_id = profiles.id) AS registration_count`

func (r *Repository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if customer == nil {
		return errors.New("customer is nil")
	}
	record := toRecord(customer)
	record.Email = domain.NormalizeEmail(record.Email)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", domain.NormalizeEmail(email)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&customerRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ListPage(ctx context.Context, filter ports.ListFilter) (query.PageResult[custtypes.CustomerRow], error) {
	var empty query.PageResult[custtypes.CustomerRow]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("profiles")
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where("profiles.email ILIKE ? OR profiles.full_name ILIKE ?", pattern, pattern)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "profiles.created_at DESC"
	if column := req.SortColumn(sortColumns); column != "" {
		ordering = column + " ASC"
		if req.Descending() {
			ordering = column + " DESC"
		}
	}
	var records []rowRecord
	if err := base.Session(&gorm.Session{}).
		Select(rowSelect).
		Order(ordering).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Scan(&records).Error; err != nil {
		return empty, err
	}
	rows := make([]custtypes.CustomerRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, custtypes.CustomerRow{
			ID:                record.ID,
			Email:             record.Email,
			FullName:          record.FullName,
			Role:              record.Role,
			Locale:            record.Locale,
			OrderCount:        record.OrderCount,
			RegistrationCount: record.RegistrationCount,
			CreatedAt:         record.CreatedAt,
		})
	}
	return query.NewPageResult(rows, total, req), nil
}

func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&customerRecord{}).Count(&total).Error
	return total, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func toRecord(customer *domain.Customer) customerRecord {
	return customerRecord{
		ID:        customer.ID,
		Email:     customer.Email,
		FullName:  customer.FullName,
		Role:      customer.Role,
		Locale:    customer.Locale,
		AvatarURL: customer.AvatarURL,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func (r customerRecord) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		Role:      r.Role,
		Locale:    r.Locale,
		AvatarURL: r.AvatarURL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
