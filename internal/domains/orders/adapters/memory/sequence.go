package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pawledger/registry-api/internal/domains/orders/ports"
)

var _ ports.NumberSequence = (*Sequence)(nil)

// Sequence issues ORD-prefixed numbers from an in-process counter.
type Sequence struct {
	counter atomic.Int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) NextOrderNumber(context.Context) (string, error) {
	return fmt.Sprintf("ORD-%06d", s.counter.Add(1)), nil
}
