package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// SortField names a column orders may be sorted by.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByStatus    SortField = "status"
)

// Sort is one ordering term.
type Sort struct {
	Field      SortField
	Descending bool
}

// Filter narrows an order query. CustomerID, when set, is applied before any
// other predicate and cannot be widened by the remaining fields.
type Filter struct {
	CustomerID  *int64
	Status      *string
	SearchTerms []string
	Sort        []Sort
}

// Repository persists orders.
type Repository interface {
	// Create inserts a new order and assigns its ID and creation time.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Find(ctx context.Context, filter Filter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
}
