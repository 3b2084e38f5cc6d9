package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

// ServiceRepository persists catalog services in PostgreSQL using GORM.
// Features and tags are text[] columns.
type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:36"`
	Name        string         `gorm:"column:name"`
	Description string         `gorm:"column:description"`
	Price       float64        `gorm:"column:price"`
	Currency    string         `gorm:"column:currency;type:varchar(8)"`
	Features    pq.StringArray `gorm:"column:features;type:text[]"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Active      bool           `gorm:"column:active;index"`
	Featured    bool           `gorm:"column:featured"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (serviceRecord) TableName() string { return "services" }

var serviceSortColumns = map[string]string{
	"created_at": "services.created_at",
	"name":       "services.name",
	"price":      "services.price",
}

func (r *ServiceRepository) Create(ctx context.Context, service *domain.Service) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if service == nil {
		return errors.New("service is nil")
	}
	record := toServiceRecord(service)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *ServiceRepository) Update(ctx context.Context, service *domain.Service) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if service == nil {
		return errors.New("service is nil")
	}
	record := toServiceRecord(service)
	result := r.db.WithContext(ctx).Model(&serviceRecord{}).
		Where("id = ?", service.ID).
		Select("*").Omit("id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record serviceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ServiceRepository) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	return r.toggle(ctx, id, map[string]any{"active": active, "updated_at": now})
}

func (r *ServiceRepository) SetFeatured(ctx context.Context, id string, featured bool, now time.Time) error {
	return r.toggle(ctx, id, map[string]any{"featured": featured, "updated_at": now})
}

func (r *ServiceRepository) toggle(ctx context.Context, id string, updates map[string]any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&serviceRecord{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) ListPage(ctx context.Context, filter ports.ServiceListFilter) (query.PageResult[domain.Service], error) {
	var empty query.PageResult[domain.Service]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("services")
	if filter.ActiveOnly {
		base = base.Where("services.active")
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where("services.name ILIKE ? OR services.description ILIKE ?", pattern, pattern)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "services.created_at DESC"
	if column := req.SortColumn(serviceSortColumns); column != "" {
		ordering = column + " ASC"
		if req.Descending() {
			ordering = column + " DESC"
		}
	}
	var records []serviceRecord
	if err := base.Session(&gorm.Session{}).
		Order(ordering).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&records).Error; err != nil {
		return empty, err
	}
	rows := make([]domain.Service, 0, len(records))
	for _, record := range records {
		rows = append(rows, *record.toDomain())
	}
	return query.NewPageResult(rows, total, req), nil
}

func (r *ServiceRepository) CountActive(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&serviceRecord{}).Where("active").Count(&total).Error
	return total, err
}

func (r *ServiceRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres service repository not configured")
	}
	return nil
}

func toServiceRecord(service *domain.Service) serviceRecord {
	return serviceRecord{
		ID:          service.ID,
		Name:        service.Name,
		Description: service.Description,
		Price:       service.Price,
		Currency:    service.Currency,
		Features:    pq.StringArray(service.Features),
		Tags:        pq.StringArray(service.Tags),
		Active:      service.Active,
		Featured:    service.Featured,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

func (r serviceRecord) toDomain() *domain.Service {
	return &domain.Service{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		Features:    []string(r.Features),
		Tags:        []string(r.Tags),
		Active:      r.Active,
		Featured:    r.Featured,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
