package provisioning

import (
	"context"
	"errors"

	ordertypes "github.com/pawledger/registry-api/internal/domains/orders/application/types"
	orderports "github.com/pawledger/registry-api/internal/domains/orders/ports"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

var _ ports.OrderBook = (*OrderBook)(nil)

// OrderBook adapts the orders context into the provisioning port.
type OrderBook struct {
	service orderports.Service
	repo    orderports.Repository
}

func NewOrderBook(service orderports.Service, repo orderports.Repository) *OrderBook {
	return &OrderBook{service: service, repo: repo}
}

func (b *OrderBook) CreateComplimentary(ctx context.Context, customerID, serviceID, currency, locale string) (ports.ComplimentaryOrder, error) {
	if b == nil || b.service == nil {
		return ports.ComplimentaryOrder{}, errors.New("order book not configured")
	}
	created, err := b.service.CreateComplimentary(ctx, ordertypes.CreateComplimentaryInput{
		Caller:     identity.System(systemSubject),
		CustomerID: customerID,
		ServiceID:  serviceID,
		Currency:   currency,
		Locale:     locale,
	})
	if err != nil {
		return ports.ComplimentaryOrder{}, err
	}
	return ports.ComplimentaryOrder{
		OrderID:     created.OrderID,
		OrderNumber: created.OrderNumber,
		OrderItemID: created.OrderItemID,
	}, nil
}

func (b *OrderBook) Remove(ctx context.Context, orderID string) error {
	if b == nil || b.repo == nil {
		return errors.New("order book not configured")
	}
	return b.repo.Remove(ctx, orderID)
}
