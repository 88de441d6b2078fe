package types

import (
	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/projection"
)

// BookProjection transports a book together with its persistence metadata.
type BookProjection = projection.Projection[*domain.Book]

// RestockResult is returned by a successful restock.
type RestockResult struct {
	Message  string
	Quantity int64
	Book     *BookProjection
}
