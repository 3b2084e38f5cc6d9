package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	cattypes "github.com/pawledger/registry-api/internal/domains/catalog/application/types"
	"github.com/pawledger/registry-api/internal/domains/catalog/domain"
	"github.com/pawledger/registry-api/internal/domains/catalog/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

// DisplayLookup resolves a customer id to display name and email, standing in
// for the relational join.
type DisplayLookup func(customerID string) (name, email string)

// NameLookup resolves a service id to its display name.
type NameLookup func(serviceID string) string

// ReviewRepository is the in-memory review persistence adapter.
type ReviewRepository struct {
	mu          sync.RWMutex
	reviews     map[string]*domain.Review
	inserted    map[string]int
	seq         int
	customers   DisplayLookup
	serviceName NameLookup
}

type ReviewOption func(*ReviewRepository)

func WithCustomerLookup(lookup DisplayLookup) ReviewOption {
	return func(r *ReviewRepository) {
		if lookup != nil {
			r.customers = lookup
		}
	}
}

func WithServiceNameLookup(lookup NameLookup) ReviewOption {
	return func(r *ReviewRepository) {
		if lookup != nil {
			r.serviceName = lookup
		}
	}
}

func NewReviewRepository(opts ...ReviewOption) *ReviewRepository {
	r := &ReviewRepository{
		reviews:     map[string]*domain.Review{},
		inserted:    map[string]int{},
		customers:   func(string) (string, string) { return "", "" },
		serviceName: func(string) string { return "" },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var reviewSortColumns = map[string]string{
	"created_at": "created_at",
	"rating":     "rating",
}

func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	if review == nil {
		return errors.New("review is nil")
	}
	if err := review.Validate(); err != nil {
		return err
	}
	clone := *review
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.reviews[clone.ID] = &clone
	r.inserted[clone.ID] = r.seq
	return nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *ReviewRepository) SetPublished(_ context.Context, id string, published bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return ports.ErrNotFound
	}
	review.Published = published
	review.UpdatedAt = now
	return nil
}

func (r *ReviewRepository) SetAdminResponse(_ context.Context, id string, response string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return ports.ErrNotFound
	}
	review.AdminResponse = response
	review.UpdatedAt = now
	return nil
}

func (r *ReviewRepository) ListPage(_ context.Context, filter ports.ReviewListFilter) (query.PageResult[cattypes.ReviewRow], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]cattypes.ReviewRow, 0, len(r.reviews))
	for _, review := range r.reviews {
		if filter.Published != nil && review.Published != *filter.Published {
			continue
		}
		name, _ := r.customers(review.CustomerID)
		serviceName := r.serviceName(review.ServiceID)
		if !query.MatchesSearch(req.Search, review.Title, name, serviceName) {
			continue
		}
		rows = append(rows, cattypes.ReviewRow{
			ID:            review.ID,
			CustomerID:    review.CustomerID,
			CustomerName:  name,
			ServiceID:     review.ServiceID,
			ServiceName:   serviceName,
			Rating:        review.Rating,
			Title:         review.Title,
			Published:     review.Published,
			AdminResponse: review.AdminResponse,
			CreatedAt:     review.CreatedAt,
		})
	}
	r.sortReviews(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *ReviewRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.reviews)), nil
}

func (r *ReviewRepository) sortReviews(rows []cattypes.ReviewRow, req query.PageRequest) {
	switch req.SortColumn(reviewSortColumns) {
	case "rating":
		query.SortStable(rows, req.Descending(), func(a, b cattypes.ReviewRow) bool {
			return a.Rating < b.Rating
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b cattypes.ReviewRow) bool {
			return r.olderReview(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b cattypes.ReviewRow) bool {
			return r.olderReview(a, b)
		})
	}
}

func (r *ReviewRepository) olderReview(a, b cattypes.ReviewRow) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
