package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Customer display
// fields are joined from profiles; absent rows coalesce to empty strings.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB
// lifecycle and schema migration.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID          string     `gorm:"primaryKey;column:id;size:36"`
	OrderNumber string     `gorm:"column:order_number;uniqueIndex"`
	CustomerID  string     `gorm:"column:customer_id;size:36;index"`
	Status      string     `gorm:"column:status;type:varchar(32);index"`
	TotalAmount float64    `gorm:"column:total_amount"`
	Currency    string     `gorm:"column:currency;type:varchar(8)"`
	AdminNotes  string     `gorm:"column:admin_notes"`
	Locale      string     `gorm:"column:locale;type:varchar(8)"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:36"`
	OrderID    string    `gorm:"column:order_id;size:36;index"`
	ServiceID  string    `gorm:"column:service_id;size:36;index"`
	Quantity   int32     `gorm:"column:quantity"`
	UnitPrice  float64   `gorm:"column:unit_price"`
	TotalPrice float64   `gorm:"column:total_price"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// rowRecord scans the joined listing projection.
type rowRecord struct {
	ID            string
	OrderNumber   string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Status        string
	TotalAmount   float64
	Currency      string
	CreatedAt     time.Time
}

type itemRowRecord struct {
	ID          string
	ServiceID   string
	ServiceName string
	Quantity    int32
	UnitPrice   float64
	TotalPrice  float64
}

var sortColumns = map[string]string{
	"created_at":   "orders.created_at",
	"total_amount": "orders.total_amount",
	"status":       "orders.status",
	"order_number": "orders.order_number",
}

const rowSelect = `orders.id, orders.order_number, orders.customer_id,
COALESCE(profiles.full_name, '') AS customer_name,
COALESCE(profiles.email, '') AS customer_email,
orders.status, orders.total_amount, orders.currency, orders.created_at`

func (r *Repository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, item := range items {
			itemRecord := toItemRecord(item)
			if err := tx.Create(&itemRecord).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Detail(ctx context.Context, id string) (*ordertypes.OrderDetail, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var display struct {
		CustomerName  string
		CustomerEmail string
	}
	if err := r.db.WithContext(ctx).Table("profiles").
		Select("COALESCE(full_name, '') AS customer_name, COALESCE(email, '') AS customer_email").
		Where("id = ?", order.CustomerID).
		Scan(&display).Error; err != nil {
		return nil, err
	}
	var items []itemRowRecord
	if err := r.db.WithContext(ctx).Table("order_items").
		Select(`order_items.id, order_items.service_id,
COALESCE(services.name, '') AS service_name,
order_items.quantity, order_items.unit_price, order_items.total_price`).
		Joins("LEFT JOIN services ON services.id = order_items.service_id").
		Where("order_items.order_id = ?", id).
		Order("order_items.created_at ASC").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	detail := &ordertypes.OrderDetail{
		Order:         *order,
		CustomerName:  display.CustomerName,
		CustomerEmail: display.CustomerEmail,
	}
	for _, item := range items {
		detail.Items = append(detail.Items, ordertypes.ItemRow{
			ID:          item.ID,
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return detail, nil
}

// UpdateStatus applies the status change only where the stored status still
// matches the expected prior value. An existing row left untouched is a lost
// race and surfaces ports.ErrConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, now time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	updates := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	if to == domain.StatusCompleted {
		updates["completed_at"] = now
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
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
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
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
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ListPage(ctx context.Context, filter ports.ListFilter) (query.PageResult[ordertypes.OrderRow], error) {
	var empty query.PageResult[ordertypes.OrderRow]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	req := filter.Page.Normalize()
	base := r.db.WithContext(ctx).Table("orders").
		Joins("LEFT JOIN profiles ON profiles.id = orders.customer_id")
	if filter.Status != "" {
		base = base.Where("orders.status = ?", string(filter.Status))
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		base = base.Where(
			"orders.order_number ILIKE ? OR profiles.full_name ILIKE ? OR profiles.email ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return empty, err
	}
	ordering := "orders.created_at DESC"
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

func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).Count(&total).Error
	return total, err
}

func (r *Repository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("status = ?", string(status)).Count(&total).Error
	return total, err
}

func (r *Repository) SumTotalByStatus(ctx context.Context, status domain.Status) (float64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var sum float64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("status = ?", string(status)).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]ordertypes.OrderRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []rowRecord
	if err := r.db.WithContext(ctx).Table("orders").
		Joins("LEFT JOIN profiles ON profiles.id = orders.customer_id").
		Select(rowSelect).
		Order("orders.created_at DESC").
		Limit(limit).
		Scan(&records).Error; err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func (r *Repository) missingOrConflict(ctx context.Context, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		AdminNotes:  order.AdminNotes,
		Locale:      order.Locale,
		CompletedAt: order.CompletedAt,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toItemRecord(item domain.OrderItem) orderItemRecord {
	return orderItemRecord{
		ID:         item.ID,
		OrderID:    item.OrderID,
		ServiceID:  item.ServiceID,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
		CreatedAt:  item.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		CustomerID:  r.CustomerID,
		Status:      domain.Status(r.Status),
		TotalAmount: r.TotalAmount,
		Currency:    r.Currency,
		AdminNotes:  r.AdminNotes,
		Locale:      r.Locale,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRows(records []rowRecord) []ordertypes.OrderRow {
	rows := make([]ordertypes.OrderRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, ordertypes.OrderRow{
			ID:            record.ID,
			OrderNumber:   record.OrderNumber,
			CustomerID:    record.CustomerID,
			CustomerName:  record.CustomerName,
			CustomerEmail: record.CustomerEmail,
			Status:        domain.Status(record.Status),
			TotalAmount:   record.TotalAmount,
			Currency:      record.Currency,
			CreatedAt:     record.CreatedAt,
		})
	}
	return rows
}
