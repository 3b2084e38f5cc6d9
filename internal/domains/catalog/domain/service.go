package domain

import (
	"errors"
	"strings"
	"time"
)

// Service is a purchasable offering, e.g. an ESA registration package.
type Service struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Currency    string
	Features    []string
	Tags        []string
	Active      bool
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	ErrEmptyName       = errors.New("service name is empty")
	ErrNegativePrice   = errors.New("service price is negative")
	ErrInvalidCurrency = errors.New("service currency must be a 3-letter code")
)

func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Price < 0 {
		return ErrNegativePrice
	}
	if len(s.Currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}
