package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	"github.com/pawledger/registry-api/internal/domains/orders/domain"
	"github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// DisplayLookup resolves a customer id to display name and email. Missing
// customers resolve to empty strings, mirroring the relational LEFT JOIN.
type DisplayLookup func(customerID string) (name, email string)

// ServiceNameLookup resolves a service id to its display name.
type ServiceNameLookup func(serviceID string) string

// Repository is the in-memory order persistence adapter with the full
// query-layer semantics, used by tests and the no-database run mode.
type Repository struct {
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	items     map[string][]domain.OrderItem
	inserted  map[string]int
	seq       int
	customers DisplayLookup
	services  ServiceNameLookup
}

type Option func(*Repository)

func WithCustomerLookup(lookup DisplayLookup) Option {
	return func(r *Repository) {
		if lookup != nil {
			r.customers = lookup
		}
	}
}

func WithServiceNameLookup(lookup ServiceNameLookup) Option {
	return func(r *Repository) {
		if lookup != nil {
			r.services = lookup
		}
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		orders:    map[string]*domain.Order{},
		items:     map[string][]domain.OrderItem{},
		inserted:  map[string]int{},
		customers: func(string) (string, string) { return "", "" },
		services:  func(string) string { return "" },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var sortColumns = map[string]string{
	"created_at":   "created_at",
	"total_amount": "total_amount",
	"status":       "status",
	"order_number": "order_number",
}

func (r *Repository) Create(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	if order == nil {
		return errors.New("order is nil")
	}
	clone := *order
	if err := clone.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.orders[clone.ID] = &clone
	r.inserted[clone.ID] = r.seq
	lines := make([]domain.OrderItem, len(items))
	copy(lines, items)
	r.items[clone.ID] = lines
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) Detail(_ context.Context, id string) (*ordertypes.OrderDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	name, email := r.customers(order.CustomerID)
	detail := &ordertypes.OrderDetail{
		Order:         *order,
		CustomerName:  name,
		CustomerEmail: email,
	}
	for _, item := range r.items[id] {
		detail.Items = append(detail.Items, ordertypes.ItemRow{
			ID:          item.ID,
			ServiceID:   item.ServiceID,
			ServiceName: r.services(item.ServiceID),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return detail, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, from, to domain.Status, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Status != from {
		return ports.ErrConflict
	}
	order.Status = to
	order.UpdatedAt = now
	if to == domain.StatusCompleted {
		completed := now
		order.CompletedAt = &completed
	}
	return nil
}

func (r *Repository) SetAdminNotes(_ context.Context, id, notes string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	order.AdminNotes = notes
	order.UpdatedAt = now
	return nil
}

func (r *Repository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	delete(r.items, id)
	delete(r.inserted, id)
	return nil
}

func (r *Repository) ListPage(_ context.Context, filter ports.ListFilter) (query.PageResult[ordertypes.OrderRow], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]ordertypes.OrderRow, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		row := r.toRow(order)
		if !query.MatchesSearch(req.Search, row.OrderNumber, row.CustomerName, row.CustomerEmail) {
			continue
		}
		rows = append(rows, row)
	}
	r.sortRows(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *Repository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *Repository) CountByStatus(_ context.Context, status domain.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, order := range r.orders {
		if order.Status == status {
			n++
		}
	}
	return n, nil
}

// CountForCustomer is the in-memory stand-in for the per-customer order
// count subquery; wire it into the customer repository as a counter hook.
func (r *Repository) CountForCustomer(customerID string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			n++
		}
	}
	return n
}

func (r *Repository) SumTotalByStatus(_ context.Context, status domain.Status) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	for _, order := range r.orders {
		if order.Status == status {
			sum += order.TotalAmount
		}
	}
	return sum, nil
}

func (r *Repository) ListRecent(_ context.Context, limit int) ([]ordertypes.OrderRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := make([]ordertypes.OrderRow, 0, len(r.orders))
	for _, order := range r.orders {
		rows = append(rows, r.toRow(order))
	}
	r.sortRows(rows, query.PageRequest{}.Normalize())
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *Repository) toRow(order *domain.Order) ordertypes.OrderRow {
	name, email := r.customers(order.CustomerID)
	return ordertypes.OrderRow{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		CustomerName:  name,
		CustomerEmail: email,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		CreatedAt:     order.CreatedAt,
	}
}

// sortRows honors the allow-listed sort column and falls back to newest-first
// insertion order, matching the relational created_at DESC default.
func (r *Repository) sortRows(rows []ordertypes.OrderRow, req query.PageRequest) {
	switch req.SortColumn(sortColumns) {
	case "total_amount":
		query.SortStable(rows, req.Descending(), func(a, b ordertypes.OrderRow) bool {
			return a.TotalAmount < b.TotalAmount
		})
	case "status":
		query.SortStable(rows, req.Descending(), func(a, b ordertypes.OrderRow) bool {
			return a.Status < b.Status
		})
	case "order_number":
		query.SortStable(rows, req.Descending(), func(a, b ordertypes.OrderRow) bool {
			return a.OrderNumber < b.OrderNumber
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b ordertypes.OrderRow) bool {
			return r.olderThan(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b ordertypes.OrderRow) bool {
			return r.olderThan(a, b)
		})
	}
}

func (r *Repository) olderThan(a, b ordertypes.OrderRow) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
