package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

// ServiceRepository is the in-memory catalog-service persistence adapter.
type ServiceRepository struct {
	mu       sync.RWMutex
	services map[string]*domain.Service
	inserted map[string]int
	seq      int
}

func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{
		services: map[string]*domain.Service{},
		inserted: map[string]int{},
	}
}

var serviceSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
}

func (r *ServiceRepository) Create(_ context.Context, service *domain.Service) error {
	if service == nil {
		return errors.New("service is nil")
	}
	if err := service.Validate(); err != nil {
		return err
	}
	clone := cloneService(service)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.services[clone.ID] = clone
	r.inserted[clone.ID] = r.seq
	return nil
}

func (r *ServiceRepository) Update(_ context.Context, service *domain.Service) error {
	if service == nil {
		return errors.New("service is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[service.ID]; !ok {
		return ports.ErrNotFound
	}
	r.services[service.ID] = cloneService(service)
	return nil
}

func (r *ServiceRepository) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.services[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneService(service), nil
}

func (r *ServiceRepository) SetActive(_ context.Context, id string, active bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	service, ok := r.services[id]
	if !ok {
		return ports.ErrNotFound
	}
	service.Active = active
	service.UpdatedAt = now
	return nil
}

func (r *ServiceRepository) SetFeatured(_ context.Context, id string, featured bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	service, ok := r.services[id]
	if !ok {
		return ports.ErrNotFound
	}
	service.Featured = featured
	service.UpdatedAt = now
	return nil
}

func (r *ServiceRepository) ListPage(_ context.Context, filter ports.ServiceListFilter) (query.PageResult[domain.Service], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]domain.Service, 0, len(r.services))
	for _, service := range r.services {
		if filter.ActiveOnly && !service.Active {
			continue
		}
		if !query.MatchesSearch(req.Search, service.Name, service.Description) {
			continue
		}
		rows = append(rows, *cloneService(service))
	}
	r.sortServices(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *ServiceRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, service := range r.services {
		if service.Active {
			n++
		}
	}
	return n, nil
}

// NameLookup adapts this repository into the service-name join hook the
// other memory adapters take.
func (r *ServiceRepository) NameLookup(serviceID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.services[serviceID]
	if !ok {
		return ""
	}
	return service.Name
}

func (r *ServiceRepository) sortServices(rows []domain.Service, req query.PageRequest) {
	switch req.SortColumn(serviceSortColumns) {
	case "name":
		query.SortStable(rows, req.Descending(), func(a, b domain.Service) bool {
			return a.Name < b.Name
		})
	case "price":
		query.SortStable(rows, req.Descending(), func(a, b domain.Service) bool {
			return a.Price < b.Price
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b domain.Service) bool {
			return r.olderService(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b domain.Service) bool {
			return r.olderService(a, b)
		})
	}
}

func (r *ServiceRepository) olderService(a, b domain.Service) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func cloneService(service *domain.Service) *domain.Service {
	clone := *service
	clone.Features = append([]string(nil), service.Features...)
	clone.Tags = append([]string(nil), service.Tags...)
	return &clone
}
