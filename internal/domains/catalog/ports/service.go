package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

// Service defines the catalog use cases exposed to adapters.
type Service interface {
	AddBook(ctx context.Context, principal authz.Principal, input catalogtypes.AddBookInput) (*catalogtypes.BookProjection, error)
	UpdateBook(ctx context.Context, principal authz.Principal, input catalogtypes.UpdateBookInput) (*catalogtypes.BookProjection, error)
	GetBook(ctx context.Context, principal authz.Principal, id int64) (*catalogtypes.BookProjection, error)
	ListBooks(ctx context.Context, principal authz.Principal) ([]*catalogtypes.BookProjection, error)
	DeleteBook(ctx context.Context, principal authz.Principal, id int64) error
	Restock(ctx context.Context, principal authz.Principal, input catalogtypes.RestockInput) (*catalogtypes.RestockResult, error)
}
