package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
)

var _ ports.NumberSequence = (*Sequence)(nil)

// Sequence issues type-prefixed registration numbers from a Postgres
// sequence.
type Sequence struct {
	db *gorm.DB
}

func NewSequence(db *gorm.DB) *Sequence {
	return &Sequence{db: db}
}

func (s *Sequence) NextRegistrationNumber(ctx context.Context, registrationType domain.Type) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("postgres registration sequence not configured")
	}
	if !domain.IsValidType(registrationType) {
		return "", domain.ErrInvalidType
	}
	var n int64
	if err := s.db.WithContext(ctx).Raw("SELECT nextval('registration_number_seq')").Scan(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", strings.ToUpper(string(registrationType)), n), nil
}
