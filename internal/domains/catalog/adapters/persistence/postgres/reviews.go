package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

// ReviewRepository persists reviews in PostgreSQL using GORM. Customer and
// service display names are joined; absent rows coalesce to empty strings.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewRecord struct {
	ID            string    `gorm:"primaryKey;column:id;size:36"`
	CustomerID    string    `gorm:"column:customer_id;size:36;index"`
	ServiceID     string    `gorm:"column:service_id;size:36;index"`
	Rating        int32     `gorm:"column:rating"`
	Title         string    `gorm:"column:title"`
	Body          string    `gorm:"column:body"`
	Published     bool      `gorm:"column:published;index"`
	AdminResponse string    `gorm:"column:admin_response"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

type reviewRowRecord struct {
	ID            string
	CustomerID    string
	CustomerName  string
	ServiceID     string
	ServiceName   string
	Rating        int32
	Title         string
	Published     bool
	AdminResponse string
	CreatedAt     time.Time
}

var reviewSortColumns = map[string]string{
	"created_at": "reviews.created_at",
	"rating":     "reviews.rating",
}

const reviewRowSelect = `reviews.id, reviews.customer_id,
COALESCE(profiles.full_name, '') AS customer_name,
reviews.service_id,
COALESCE(services.name, '') AS service_name,
reviews.rating, reviews.title, reviews.published, reviews.admin_response, reviews.created_at`

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if review == nil {
		return errors.New("review is nil")
	}
	record := toReviewRecord(review)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record reviewRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ReviewRepository) SetPublished(ctx context.Context, id string, published bool, now time.Time) error {
	return r.update(ctx, id, map[string]any{"published": published, "updated_at": now})
}

func (r *ReviewRepository) SetAdminResponse(ctx context.Context, id string, response string, now time.Time) error {
	return r.update(ctx, id, map[string]any{"admin_response": response, "updated_at": now})
}

func (r *ReviewRepository) update(ctx context.Context, id string, updates map[string]any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&reviewRecord{}).
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

func (r *ReviewRepository) ListPage(ctx context.Context, filter ports.ReviewListFilter) (query.PageResult[cattypes.ReviewRow], error) {
	var empty query.PageResult[cattypes.ReviewRow]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("reviews").
		Joins("LEFT JOIN profiles ON profiles.id = reviews.customer_id").
		Joins("LEFT JOIN services ON services.id = reviews.service_id")
	if filter.Published != nil {
		base = base.Where("reviews.published = ?", *filter.Published)
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where(
			"reviews.title ILIKE ? OR profiles.full_name ILIKE ? OR services.name ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "reviews.created_at DESC"
	if column := req.SortColumn(reviewSortColumns); column != "" {
		ordering = column + " ASC"
		if req.Descending() {
			ordering = column + " DESC"
		}
	}
	var records []reviewRowRecord
	if err := base.Session(&gorm.Session{}).
		Select(reviewRowSelect).
		Order(ordering).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Scan(&records).Error; err != nil {
		return empty, err
	}
	return query.NewPageResult(toReviewRows(records), total, req), nil
}

func (r *ReviewRepository) CountAll(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&reviewRecord{}).Count(&total).Error
	return total, err
}

func (r *ReviewRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}

func toReviewRecord(review *domain.Review) reviewRecord {
	return reviewRecord{
		ID:            review.ID,
		CustomerID:    review.CustomerID,
		ServiceID:     review.ServiceID,
		Rating:        review.Rating,
		Title:         review.Title,
		Body:          review.Body,
		Published:     review.Published,
		AdminResponse: review.AdminResponse,
		CreatedAt:     review.CreatedAt,
		UpdatedAt:     review.UpdatedAt,
	}
}

func (r reviewRecord) toDomain() *domain.Review {
	return &domain.Review{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		ServiceID:     r.ServiceID,
		Rating:        r.Rating,
		Title:         r.Title,
		Body:          r.Body,
		Published:     r.Published,
		AdminResponse: r.AdminResponse,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toReviewRows(records []reviewRowRecord) []cattypes.ReviewRow {
	rows := make([]cattypes.ReviewRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, cattypes.ReviewRow{
			ID:            record.ID,
			CustomerID:    record.CustomerID,
			CustomerName:  record.CustomerName,
			ServiceID:     record.ServiceID,
			ServiceName:   record.ServiceName,
			Rating:        record.Rating,
			Title:         record.Title,
			Published:     record.Published,
			AdminResponse: record.AdminResponse,
			CreatedAt:     record.CreatedAt,
		})
	}
	return rows
}
