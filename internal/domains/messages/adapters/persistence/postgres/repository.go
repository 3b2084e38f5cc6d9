package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/domains/messages/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists contact messages in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type messageRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:36"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email;index"`
	Subject    string    `gorm:"column:subject"`
	Body       string    `gorm:"column:body"`
	Status     string    `gorm:"column:status;type:varchar(16);index"`
	AdminNotes string    `gorm:"column:admin_notes"`
	AssignedTo string    `gorm:"column:assigned_to"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (messageRecord) TableName() string { return "contact_messages" }

var sortColumns = map[string]string{
	"created_at": "contact_messages.created_at",
	"status":     "contact_messages.status",
	"email":      "contact_messages.email",
	"subject":    "contact_messages.subject",
}

func (r *Repository) Create(ctx context.Context, message *domain.Message) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if message == nil {
		return errors.New("message is nil")
	}
	record := toRecord(message)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record messageRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) SetStatus(ctx context.Context, id string, status domain.Status, now time.Time) error {
	return r.update(ctx, id, map[string]any{"status": string(status), "updated_at": now})
}

func (r *Repository) SetAdminNotes(ctx context.Context, id string, notes string, now time.Time) error {
	return r.update(ctx, id, map[string]any{"admin_notes": notes, "updated_at": now})
}

func (r *Repository) Assign(ctx context.Context, id string, assignee string, now time.Time) error {
	return r.update(ctx, id, map[string]any{"assigned_to": assignee, "updated_at": now})
}

func (r *Repository) update(ctx context.Context, id string, updates map[string]any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&messageRecord{}).
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

func (r *Repository) ListPage(ctx context.Context, filter ports.ListFilter) (query.PageResult[msgtypes.MessageRow], error) {
	var empty query.PageResult[msgtypes.MessageRow]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("contact_messages")
	if filter.Status != "" {
		base = base.Where("contact_messages.status = ?", string(filter.Status))
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where(
			"contact_messages.name ILIKE ? OR contact_messages.email ILIKE ? OR contact_messages.subject ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "contact_messages.created_at DESC"
	if column := req.SortColumn(sortColumns); column != "" {
		ordering = column + " ASC"
		if req.Descending() {
			ordering = column + " DESC"
		}
	}
	var records []messageRecord
	if err := base.Session(&gorm.Session{}).
		Order(ordering).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&records).Error; err != nil {
		return empty, err
	}
	return query.NewPageResult(toRows(records), total, req), nil
}

func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&messageRecord{}).Count(&total).Error
	return total, err
}

func (r *Repository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&messageRecord{}).
		Where("status = ?", string(status)).Count(&total).Error
	return total, err
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]msgtypes.MessageRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []messageRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres message repository not configured")
	}
	return nil
}

func toRecord(message *domain.Message) messageRecord {
	return messageRecord{
		ID:         message.ID,
		Name:       message.Name,
		Email:      message.Email,
		Subject:    message.Subject,
		Body:       message.Body,
		Status:     string(message.Status),
		AdminNotes: message.AdminNotes,
		AssignedTo: message.AssignedTo,
		CreatedAt:  message.CreatedAt,
		UpdatedAt:  message.UpdatedAt,
	}
}

func (r messageRecord) toDomain() *domain.Message {
	return &domain.Message{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Subject:    r.Subject,
		Body:       r.Body,
		Status:     domain.Status(r.Status),
		AdminNotes: r.AdminNotes,
		AssignedTo: r.AssignedTo,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toRows(records []messageRecord) []msgtypes.MessageRow {
	rows := make([]msgtypes.MessageRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, msgtypes.MessageRow{
			ID:         record.ID,
			Name:       record.Name,
			Email:      record.Email,
			Subject:    record.Subject,
			Status:     domain.Status(record.Status),
			AssignedTo: record.AssignedTo,
			CreatedAt:  record.CreatedAt,
		})
	}
	return rows
}
