package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/domains/messages/ports"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the in-memory contact-message persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	messages map[string]*domain.Message
	inserted map[string]int
	seq      int
}

func NewRepository() *Repository {
	return &Repository{
		messages: map[string]*domain.Message{},
		inserted: map[string]int{},
	}
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"status":     "status",
	"email":      "email",
	"subject":    "subject",
}

func (r *Repository) Create(_ context.Context, message *domain.Message) error {
	if message == nil {
		return errors.New("message is nil")
	}
	if err := message.Validate(); err != nil {
		return err
	}
	clone := *message
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.messages[clone.ID] = &clone
	r.inserted[clone.ID] = r.seq
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	message, ok := r.messages[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *message
	return &clone, nil
}

func (r *Repository) SetStatus(_ context.Context, id string, status domain.Status, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return ports.ErrNotFound
	}
	message.Status = status
	message.UpdatedAt = now
	return nil
}

func (r *Repository) SetAdminNotes(_ context.Context, id string, notes string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return ports.ErrNotFound
	}
	message.AdminNotes = notes
	message.UpdatedAt = now
	return nil
}

func (r *Repository) Assign(_ context.Context, id string, assignee string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return ports.ErrNotFound
	}
	message.AssignedTo = assignee
	message.UpdatedAt = now
	return nil
}

func (r *Repository) ListPage(_ context.Context, filter ports.ListFilter) (query.PageResult[msgtypes.MessageRow], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := filter.Page.Normalize()

	rows := make([]msgtypes.MessageRow, 0, len(r.messages))
	for _, message := range r.messages {
		if filter.Status != "" && message.Status != filter.Status {
			continue
		}
		if !query.MatchesSearch(req.Search, message.Name, message.Email, message.Subject) {
			continue
		}
		rows = append(rows, r.toRow(message))
	}
	r.sortRows(rows, req)
	return query.Paginate(rows, req), nil
}

func (r *Repository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.messages)), nil
}

func (r *Repository) CountByStatus(_ context.Context, status domain.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, message := range r.messages {
		if message.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *Repository) ListRecent(_ context.Context, limit int) ([]msgtypes.MessageRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := make([]msgtypes.MessageRow, 0, len(r.messages))
	for _, message := range r.messages {
		rows = append(rows, r.toRow(message))
	}
	query.SortStable(rows, true, func(a, b msgtypes.MessageRow) bool {
		return r.olderThan(a, b)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *Repository) toRow(message *domain.Message) msgtypes.MessageRow {
	return msgtypes.MessageRow{
		ID:         message.ID,
		Name:       message.Name,
		Email:      message.Email,
		Subject:    message.Subject,
		Status:     message.Status,
		AssignedTo: message.AssignedTo,
		CreatedAt:  message.CreatedAt,
	}
}

func (r *Repository) sortRows(rows []msgtypes.MessageRow, req query.PageRequest) {
	switch req.SortColumn(sortColumns) {
	case "status":
		query.SortStable(rows, req.Descending(), func(a, b msgtypes.MessageRow) bool {
			return a.Status < b.Status
		})
	case "email":
		query.SortStable(rows, req.Descending(), func(a, b msgtypes.MessageRow) bool {
			return a.Email < b.Email
		})
	case "subject":
		query.SortStable(rows, req.Descending(), func(a, b msgtypes.MessageRow) bool {
			return a.Subject < b.Subject
		})
	case "created_at":
		query.SortStable(rows, req.Descending(), func(a, b msgtypes.MessageRow) bool {
			return r.olderThan(a, b)
		})
	default:
		query.SortStable(rows, true, func(a, b msgtypes.MessageRow) bool {
			return r.olderThan(a, b)
		})
	}
}

func (r *Repository) olderThan(a, b msgtypes.MessageRow) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return r.inserted[a.ID] < r.inserted[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
