package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists registrations in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type registrationRecord struct {
	ID                 string     `gorm:"primaryKey;column:id;size:36"`
	RegistrationNumber string     `gorm:"column:registration_number;uniqueIndex"`
	CustomerID         string     `gorm:"column:customer_id;size:36;index"`
	OrderID            string     `gorm:"column:order_id;size:36"`
	OrderItemID        string     `gorm:"column:order_item_id;size:36"`
	PetName            string     `gorm:"column:pet_name"`
	PetSpecies         string     `gorm:"column:pet_species"`
	PetBreed           string     `gorm:"column:pet_breed"`
	PetColor           string     `gorm:"column:pet_color"`
	PetWeightKg        *float64   `gorm:"column:pet_weight_kg"`
	PetDateOfBirth     *time.Time `gorm:"column:pet_date_of_birth"`
	PetPhotoURL        string     `gorm:"column:pet_photo_url"`
	HandlerName        string     `gorm:"column:handler_name"`
	Type               string     `gorm:"column:type;type:varchar(8);index"`
	Status             string     `gorm:"column:status;type:varchar(32);index"`
	IsPublic           bool       `gorm:"column:is_public"`
	AdminNotes         string     `gorm:"column:admin_notes"`
	RegistrationDate   time.Time  `gorm:"column:registration_date"`
	ExpiryDate         *time.Time `gorm:"column:expiry_date;index"`
	CreatedAt          time.Time  `gorm:"column:created_at;index"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (registrationRecord) TableName() string { return "pet_registrations" }

type rowRecord struct {
	ID                 string
	RegistrationNumber string
	CustomerID         string
	CustomerName       string
	CustomerEmail      string
	PetName            string
	Type               string
	Status             string
	IsPublic           bool
	ExpiryDate         *time.Time
	CreatedAt          time.Time
}

var sortColumns = map[string]string{
	"created_at":          "pet_registrations.created_at",
	"pet_name":            "pet_registrations.pet_name",
	"status":              "pet_registrations.status",
	"registration_number": "pet_registrations.registration_number",
	"expiry_date":         "pet_registrations.expiry_date",
}

const rowSelect = `pet_registrations.id, pet_registrations.registration_number,
pet_registrations.customer_id,
COALESCE(profiles.full_name, '') AS customer_name,
COALESCE(profiles.email, '') AS customer_email,
pet_registrations.pet_name, pet_registrations.type, pet_registrations.status,
pet_registrations.is_public, pet_registrations.expiry_date, pet_registrations.created_at`

func (r *Repository) Create(ctx context.Context, registration *domain.Registration) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if registration == nil {
		return errors.New("registration is nil")
	}
	record := toRecord(registration)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record registrationRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateStatus applies the change only where the stored status still matches
// the expected prior value.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&registrationRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, id)
	}
	return nil
}

func (r *Repository) SetAdminNotes(ctx context.Context, id, notes string, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&registrationRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"admin_notes": notes, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&registrationRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ListPage(ctx context.Context, filter ports.ListFilter) (query.PageResult[regtypes.RegistrationRow], error) {
	var empty query.PageResult[regtypes.RegistrationRow]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("pet_registrations").
		Joins("LEFT JOIN profiles ON profiles.id = pet_registrations.customer_id")
	if filter.Status != "" {
		base = base.Where("pet_registrations.status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		base = base.Where("pet_registrations.type = ?", string(filter.Type))
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where(
			"pet_registrations.registration_number ILIKE ? OR pet_registrations.pet_name ILIKE ? OR profiles.full_name ILIKE ? OR profiles.email ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "pet_registrations.created_at DESC"
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
	return query.NewPageResult(toRows(records), total, req), nil
}

func (r *Repository) VerifyByNumber(ctx context.Context, number string) (*regtypes.VerifiedRegistration, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record registrationRecord
	err := r.db.WithContext(ctx).
		Where("registration_number = ? AND is_public AND status = ?", number, string(domain.StatusActive)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &regtypes.VerifiedRegistration{
		RegistrationNumber: record.RegistrationNumber,
		PetName:            record.PetName,
		PetSpecies:         record.PetSpecies,
		PetBreed:           record.PetBreed,
		HandlerName:        record.HandlerName,
		Type:               domain.Type(record.Type),
		Status:             domain.Status(record.Status),
		RegistrationDate:   record.RegistrationDate,
		ExpiryDate:         record.ExpiryDate,
	}, nil
}

func (r *Repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Model(&registrationRecord{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", string(domain.StatusActive), now).
		Updates(map[string]any{"status": string(domain.StatusExpired), "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&registrationRecord{}).Count(&total).Error
	return total, err
}

func (r *Repository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&registrationRecord{}).
		Where("status = ?", string(status)).Count(&total).Error
	return total, err
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]regtypes.RegistrationRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []rowRecord
	if err := r.db.WithContext(ctx).Table("pet_registrations").
		Joins("LEFT JOIN profiles ON profiles.id = pet_registrations.customer_id").
		Select(rowSelect).
		Order("pet_registrations.created_at DESC").
		Limit(limit).
		Scan(&records).Error; err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func (r *Repository) missingOrConflict(ctx context.Context, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&registrationRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres registration repository not configured")
	}
	return nil
}

func toRecord(registration *domain.Registration) registrationRecord {
	return registrationRecord{
		ID:                 registration.ID,
		RegistrationNumber: registration.RegistrationNumber,
		CustomerID:         registration.CustomerID,
		OrderID:            registration.OrderID,
		OrderItemID:        registration.OrderItemID,
		PetName:            registration.PetName,
		PetSpecies:         registration.PetSpecies,
		PetBreed:           registration.PetBreed,
		PetColor:           registration.PetColor,
		PetWeightKg:        registration.PetWeightKg,
		PetDateOfBirth:     registration.PetDateOfBirth,
		PetPhotoURL:        registration.PetPhotoURL,
		HandlerName:        registration.HandlerName,
		Type:               string(registration.Type),
		Status:             string(registration.Status),
		IsPublic:           registration.IsPublic,
		AdminNotes:         registration.AdminNotes,
		RegistrationDate:   registration.RegistrationDate,
		ExpiryDate:         registration.ExpiryDate,
		CreatedAt:          registration.CreatedAt,
		UpdatedAt:          registration.UpdatedAt,
	}
}

func (r registrationRecord) toDomain() *domain.Registration {
	return &domain.Registration{
		ID:                 r.ID,
		RegistrationNumber: r.RegistrationNumber,
		CustomerID:         r.CustomerID,
		OrderID:            r.OrderID,
		OrderItemID:        r.OrderItemID,
		PetName:            r.PetName,
		PetSpecies:         r.PetSpecies,
		PetBreed:           r.PetBreed,
		PetColor:           r.PetColor,
		PetWeightKg:        r.PetWeightKg,
		PetDateOfBirth:     r.PetDateOfBirth,
		PetPhotoURL:        r.PetPhotoURL,
		HandlerName:        r.HandlerName,
		Type:               domain.Type(r.Type),
		Status:             domain.Status(r.Status),
		IsPublic:           r.IsPublic,
		AdminNotes:         r.AdminNotes,
		RegistrationDate:   r.RegistrationDate,
		ExpiryDate:         r.ExpiryDate,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toRows(records []rowRecord) []regtypes.RegistrationRow {
	rows := make([]regtypes.RegistrationRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, regtypes.RegistrationRow{
			ID:                 record.ID,
			RegistrationNumber: record.RegistrationNumber,
			CustomerID:         record.CustomerID,
			CustomerName:       record.CustomerName,
			CustomerEmail:      record.CustomerEmail,
			PetName:            record.PetName,
			Type:               domain.Type(record.Type),
			Status:             domain.Status(record.Status),
			IsPublic:           record.IsPublic,
			ExpiryDate:         record.ExpiryDate,
			CreatedAt:          record.CreatedAt,
		})
	}
	return rows
}
