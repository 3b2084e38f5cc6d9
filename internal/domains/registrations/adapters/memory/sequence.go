package memory

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
)

var _ ports.NumberSequence = (*Sequence)(nil)

// Sequence issues type-prefixed registration numbers from an in-process
// counter shared across both types, like the relational sequence.
type Sequence struct {
	counter atomic.Int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) NextRegistrationNumber(_ context.Context, registrationType domain.Type) (string, error) {
	if !domain.IsValidType(registrationType) {
		return "", domain.ErrInvalidType
	}
	prefix := strings.ToUpper(string(registrationType))
	return fmt.Sprintf("%s-%06d", prefix, s.counter.Add(1)), nil
}
