package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/projection"
)

var ErrNotFound = errors.New("book not found")

// Repository persists books. IncrementQuantity must be atomic with respect to
// concurrent increments of the same book.
type Repository interface {
	Save(ctx context.Context, book *domain.Book) (*projection.Projection[*domain.Book], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Book], error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*projection.Projection[*domain.Book], error)
	IncrementQuantity(ctx context.Context, id int64, amount int64) (*projection.Projection[*domain.Book], error)
}
