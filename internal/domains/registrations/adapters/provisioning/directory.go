// Package provisioning bridges the registrations context to the narrow
// slices of the customers and orders contexts that the composite creation
// needs.
package provisioning

import (
	"context"
	"errors"

	custtypes "github.com/pawledger/registry-api/internal/domains/customers/application/types"
	custports "github.com/pawledger/registry-api/internal/domains/customers/ports"
	"github.com/pawledger/registry-api/internal/domains/registrations/ports"
	"github.com/pawledger/registry-api/internal/shared/identity"
)

var _ ports.CustomerDirectory = (*Directory)(nil)

const systemSubject = "registration-provisioner"

// Directory adapts the customers context into the provisioning port. Removal
// bypasses the service because compensation is not an admin intent of its
// own.
type Directory struct {
	service custports.Service
	repo    custports.Repository
}

func NewDirectory(service custports.Service, repo custports.Repository) *Directory {
	return &Directory{service: service, repo: repo}
}

func (d *Directory) ResolveOrCreate(ctx context.Context, email, fullName, locale string) (ports.ProvisionedCustomer, error) {
	if d == nil || d.service == nil {
		return ports.ProvisionedCustomer{}, errors.New("customer directory not configured")
	}
	resolved, err := d.service.ResolveOrCreate(ctx, custtypes.ResolveOrCreateInput{
		Caller:   identity.System(systemSubject),
		Email:    email,
		FullName: fullName,
		Locale:   locale,
	})
	if err != nil {
		return ports.ProvisionedCustomer{}, err
	}
	return ports.ProvisionedCustomer{ID: resolved.Customer.ID, Created: resolved.Created}, nil
}

func (d *Directory) Remove(ctx context.Context, customerID string) error {
	if d == nil || d.repo == nil {
		return errors.New("customer directory not configured")
	}
	return d.repo.Remove(ctx, customerID)
}
