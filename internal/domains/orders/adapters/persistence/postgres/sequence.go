package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pawledger/registry-api/internal/domains/orders/ports"
)

var _ ports.NumberSequence = (*Sequence)(nil)

// Sequence issues ORD-prefixed order numbers from a Postgres sequence.
type Sequence struct {
	db *gorm.DB
}

func NewSequence(db *gorm.DB) *Sequence {
	return &Sequence{db: db}
}

func (s *Sequence) NextOrderNumber(ctx context.Context) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("postgres order sequence not configured")
	}
	var n int64
	if err := s.db.WithContext(ctx).Raw("SELECT nextval('order_number_seq')").Scan(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%06d", n), nil
}
