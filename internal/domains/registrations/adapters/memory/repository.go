package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	regtypes "github.com/pawledger/registry-api/internal/domains/registrations/application/types"
	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// DisplayLookup resolves a customer id to display name and email.
type DisplayLookup func(customerID string) (name, email string)

// Repository is the in-memory registration persistence adapter with the full
// query-layer semantics, used by tests and the no-database run mode.
type Repository struct {
	mu            sync.RWMutex
	registrations map[string]*domain.Registration
	inserted      map[string]int
	seq           int
	customers     DisplayLookup
}

type Option func(*Repository)

func WithCustomerLookup(lookup DisplayLookup) Option {
	return func(r *Repository) {
		if lookup != nil {
			r.customers = lookup
		}
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		registrations: map[string]*domain.Registration{},
		inserted:      map[string]int{},
		customers:     func(string) (string, string) { return "", "" },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var sortColumns = map[string]string{
	"created_at":          "created_at",
	"pet_name":            "pet_name",
	"status":              "status",
	"registration_number": "registration_number",
	"expiry_date":         "expiry_date",
}

func (r *Repository) Create(_ context.Context, registration *domain.Registration) error {
	if registration == nil {
		return errors.New("registration is nil")
	}
	clone := *registration
	if err := clone.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.registrations[clone.ID] = &clone
	r.inserted[clone.ID] = r.seq
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	registration, ok := r.registrations[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *registration
	return &clone, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, from, to domain.Status, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	registration, ok := r.registrations[id]
	if !ok {
		return ports.ErrNotFound
	}
	if registration.Status != from {
		return ports.ErrConflict
	}
	registration.Status = to
	registration.UpdatedAt = now
	return nil
}

func (r *Repository) SetAdminNotes(_ context.Context, id, notes string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	registration, ok := r.registrations[id]
	if !ok {
		return ports.ErrNotFound
	}
	registration.AdminNotes = notes
	registration.UpdatedAt = now
	return nil
}

func (r *Repository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.registrations[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.registrations, id)
	delete(r.inserted, id)
	return nil
}

func (r *Repository) ListPage(_ context.Context, filter ports.ListFilter) (query.PageResult[regtypes.RegistrationRow], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]regtypes.RegistrationRow, 0, len(r.registrations))
	for _, registration := range r.registrations {
		if filter.Status != "" && registration.Status != filter.Status {
			continue
		}
		if filter.Type != "" && registration.Type != filter.Type {
			continue
		}
		row := r.toRow(registration)
		if !query.MatchesSearch(req.Search, row.RegistrationNumber, row.PetName, row.CustomerName, row.CustomerEmail) {
			continue
		}
		rows = append(rows, row)
	}
	r.sortRows(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *Repository) VerifyByNumber(_ context.Context, number string) (*regtypes.VerifiedRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, registration := range r.registrations {
		if registration.RegistrationNumber != number {
			continue
		}
		if !registration.IsPublic || registration.Status != domain.StatusActive {
			return nil, ports.ErrNotFound
		}
		return &regtypes.VerifiedRegistration{
			RegistrationNumber: registration.RegistrationNumber,
			PetName:            registration.PetName,
			PetSpecies:         registration.PetSpecies,
			PetBreed:           registration.PetBreed,
			HandlerName:        registration.HandlerName,
			Type:               registration.Type,
			Status:             registration.Status,
			RegistrationDate:   registration.RegistrationDate,
			ExpiryDate:         registration.ExpiryDate,
		}, nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired int64
	for _, registration := range r.registrations {
		if registration.ExpiresBefore(now) {
			registration.Status = domain.StatusExpired
			registration.UpdatedAt = now
			expired++
		}
	}
	return expired, nil
}

func (r *Repository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.registrations)), nil
}

func (r *Repository) CountByStatus(_ context.Context, status domain.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, registration := range r.registrations {
		if registration.Status == status {
			n++
		}
	}
	return n, nil
}

// CountForCustomer is the in-memory stand-in for the per-customer
// registration count subquery used by the customer listing.
func (r *Repository) CountForCustomer(customerID string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, registration := range r.registrations {
		if registration.CustomerID == customerID {
			n++
		}
	}
	return n
}

func (r *Repository) ListRecent(_ context.Context, limit int) ([]regtypes.RegistrationRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := make([]regtypes.RegistrationRow, 0, len(r.registrations))
	for _, registration := range r.registrations {
		rows = append(rows, r.toRow(registration))
	}
	r.sortRows(rows, query.PageRequest{}.Normalize())
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *Repository) toRow(registration *domain.Registration) regtypes.RegistrationRow {
	name, email := r.customers(registration.CustomerID)
	return regtypes.RegistrationRow{
		ID:                 registration.ID,
		RegistrationNumber: registration.RegistrationNumber,
		CustomerID:         registration.CustomerID,
		CustomerName:       name,
		CustomerEmail:      email,
		PetName:            registration.PetName,
		Type:               registration.Type,
		Status:             registration.Status,
		IsPublic:           registration.IsPublic,
		ExpiryDate:         registration.ExpiryDate,
		CreatedAt:          registration.CreatedAt,
	}
}

func (r *Repository) sortRows(rows []regtypes.RegistrationRow, req query.PageRequest) {
	switch req.SortColumn(sortColumns) {
	case "pet_name":
		query.SortStable(rows, req.Descending(), func(a, b regtypes.RegistrationRow) bool {
			return a.PetName < b.PetName
		})
	case "status":
		query.SortStable(rows, req.Descending(), func(a, b regtypes.RegistrationRow) bool {
			return a.Status < b.Status
		})
	case "registration_number":
		query.SortStable(rows, req.Descending(), func(a, b regtypes.RegistrationRow) bool {
			return a.RegistrationNumber < b.RegistrationNumber
		})
	case "expiry_date":
		query.SortStable(rows, req.Descending(), func(a, b regtypes.RegistrationRow) bool {
			switch {
			case a.ExpiryDate == nil:
				return b.ExpiryDate != nil
			case b.ExpiryDate == nil:
				return false
			default:
				return a.ExpiryDate.Before(*b.ExpiryDate)
			}
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b regtypes.RegistrationRow) bool {
			return r.olderThan(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b regtypes.RegistrationRow) bool {
			return r.olderThan(a, b)
		})
	}
}

func (r *Repository) olderThan(a, b regtypes.RegistrationRow) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
