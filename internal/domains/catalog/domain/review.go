package domain

import (
	"errors"
	"time"
)

// Review is a customer review of a service. Reviews arrive from the
// storefront; the back office only moderates them.
type Review struct {
	ID            string
	CustomerID    string
	ServiceID     string
	Rating        int32
	Title         string
	Body          string
	Published     bool
	AdminResponse string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var ErrInvalidRating = errors.New("review rating must be between 1 and 5")

func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
