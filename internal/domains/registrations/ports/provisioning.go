package ports

import "context"

// ProvisionedCustomer reports the customer row provisioning resolved or
// created.
type ProvisionedCustomer struct {
	ID      string
	Created bool
}

// CustomerDirectory is the narrow slice of the customers context that
// provisioning needs: resolve-or-create by email, plus removal for
// compensation of a customer this very operation created.
type CustomerDirectory interface {
	ResolveOrCreate(ctx context.Context, email, fullName, locale string) (ProvisionedCustomer, error)
	Remove(ctx context.Context, customerID string) error
}

// ComplimentaryOrder reports the bookkeeping order provisioning created.
type ComplimentaryOrder struct {
	OrderID     string
	OrderNumber string
	OrderItemID string
}

// OrderBook is the narrow slice of the orders context that provisioning
// needs: zero-value completed order creation, plus removal for compensation.
type OrderBook interface {
	CreateComplimentary(ctx context.Context, customerID, serviceID, currency, locale string) (ComplimentaryOrder, error)
	Remove(ctx context.Context, orderID string) error
}
