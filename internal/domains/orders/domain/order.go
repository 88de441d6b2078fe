package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is an open set of order states; the constants are the ones the API uses by default.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"

	maxStatusLength = 32
)

var (
	ErrMissingCustomer = errors.New("order customer is required")
	ErrInvalidStatus   = errors.New("order status must be 1 to 32 characters")
)

// Order is a customer purchase. The customer is fixed at creation.
type Order struct {
	ID               int64
	CustomerID       int64
	CustomerUsername string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewOrder builds an order for the given customer. An empty status defaults to pending.
func NewOrder(customerID int64, customerUsername string, status Status) (*Order, error) {
	if customerID <= 0 {
		return nil, ErrMissingCustomer
	}
	o := &Order{CustomerID: customerID, CustomerUsername: customerUsername}
	if err := o.UpdateStatus(status); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus normalises and stores the status; empty means pending.
func (o *Order) UpdateStatus(status Status) error {
	normalized, err := NormalizeStatus(status)
	if err != nil {
		return err
	}
	o.Status = normalized
	return nil
}

// NormalizeStatus trims the status and applies the default.
func NormalizeStatus(status Status) (Status, error) {
	trimmed := Status(strings.TrimSpace(string(status)))
	if trimmed == "" {
		return StatusPending, nil
	}
	if len(trimmed) > maxStatusLength {
		return "", ErrInvalidStatus
	}
	return trimmed, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrMissingCustomer
	}
	if o.Status == "" || len(o.Status) > maxStatusLength {
		return ErrInvalidStatus
	}
	return nil
}
