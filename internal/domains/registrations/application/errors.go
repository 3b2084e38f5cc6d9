package application

import (
	"errors"
	"fmt"

	"github.com/pawledger/registry-api/internal/domains/registrations/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant or is
	// missing a required field.
	ErrInvalidInput = errors.New("invalid registration input")
	// ErrProvisionFailed wraps a downstream failure inside the composite
	// provisioning operation, tagged with the failing step.
	ErrProvisionFailed = errors.New("registration provisioning failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidType) ||
		errors.Is(err, domain.ErrInvalidCustomerID) ||
		errors.Is(err, domain.ErrInvalidPetName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
