package memory

import (
	"context"
	"errors"
	"sync"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	"github.com/pawledger/registry-api/internal/domains/customers/domain"
	"github.com/pawledger/registry-api/internal/domains/customers/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// CountLookup resolves a customer id to an activity count, standing in for
// the relational aggregate subqueries.
type CountLookup func(customerID string) int64

// Repository is the in-memory customer persistence adapter.
type Repository struct {
	mu            sync.RWMutex
	customers     map[string]*domain.Customer
	inserted      map[string]int
	seq           int
	orders        CountLookup
	registrations CountLookup
}

type Option func(*Repository)

func WithOrderCounter(lookup CountLookup) Option {
	return func(r *Repository) {
		if lookup != nil {
			r.orders = lookup
		}
	}
}

func WithRegistrationCounter(lookup CountLookup) Option {
	return func(r *Repository) {
		if lookup != nil {
			r.registrations = lookup
		}
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		customers:     map[string]*domain.Customer{},
		inserted:      map[string]int{},
		orders:        func(string) int64 { return 0 },
		registrations: func(string) int64 { return 0 },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"email":      "email",
	"full_name":  "full_name",
}

func (r *Repository) Create(_ context.Context, customer *domain.Customer) error {
	if customer == nil {
		return errors.New("customer is nil")
	}
	clone := *customer
	clone.Email = domain.NormalizeEmail(clone.Email)
	if err := clone.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.customers[clone.ID] = &clone
	r.inserted[clone.ID] = r.seq
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	normalized := domain.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if customer.Email == normalized {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.customers, id)
	delete(r.inserted, id)
	return nil
}

func (r *Repository) ListPage(_ context.Context, filter ports.ListFilter) (query.PageResult[custtypes.CustomerRow], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]custtypes.CustomerRow, 0, len(r.customers))
	for _, customer := range r.customers {
		if !query.MatchesSearch(req.Search, customer.Email, customer.FullName) {
			continue
		}
		rows = append(rows, custtypes.CustomerRow{
			ID:                customer.ID,
			Email:             customer.Email,
			FullName:          customer.FullName,
			Role:              customer.Role,
			Locale:            customer.Locale,
			OrderCount:        r.orders(customer.ID),
			RegistrationCount: r.registrations(customer.ID),
			CreatedAt:         customer.CreatedAt,
		})
	}
	r.sortRows(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *Repository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}

func (r *Repository) sortRows(rows []custtypes.CustomerRow, req query.PageRequest) {
	switch req.SortColumn(sortColumns) {
	case "email":
		query.SortStable(rows, req.Descending(), func(a, b custtypes.CustomerRow) bool {
			return a.Email < b.Email
		})
	case "full_name":
		query.SortStable(rows, req.Descending(), func(a, b custtypes.CustomerRow) bool {
			return a.FullName < b.FullName
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b custtypes.CustomerRow) bool {
			return r.olderThan(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b custtypes.CustomerRow) bool {
			return r.olderThan(a, b)
		})
	}
}

func (r *Repository) olderThan(a, b custtypes.CustomerRow) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// DisplayLookup adapts this repository into the display-field join hook the
// other memory adapters take.
func (r *Repository) DisplayLookup(customerID string) (string, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[customerID]
	if !ok {
		return "", ""
	}
	return customer.FullName, customer.Email
}
