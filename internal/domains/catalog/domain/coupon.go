package domain

import (
	"errors"
	"strings"
	"time"
)

// DiscountType says how a coupon's value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a checkout discount code.
type Coupon struct {
	ID            string
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue float64
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	ErrEmptyCode           = errors.New("coupon code is empty")
	ErrInvalidDiscountType = errors.New("coupon discount type is invalid")
	ErrInvalidDiscount     = errors.New("coupon discount value is out of range")
	ErrInvalidValidity     = errors.New("coupon valid_until precedes valid_from")
)

func (c *Coupon) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ErrEmptyCode
	}
	switch c.DiscountType {
	case DiscountPercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return ErrInvalidDiscount
		}
	case DiscountFixed:
		if c.DiscountValue <= 0 {
			return ErrInvalidDiscount
		}
	default:
		return ErrInvalidDiscountType
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return ErrInvalidValidity
	}
	return nil
}

// NormalizeCode upper-cases and trims a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
