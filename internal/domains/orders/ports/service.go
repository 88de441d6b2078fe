package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, principal authz.Principal, input ordertypes.PlaceOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, principal authz.Principal, query ordertypes.ListOrdersQuery) ([]*domain.Order, error)
	GetOrder(ctx context.Context, principal authz.Principal, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, principal authz.Principal, input ordertypes.UpdateOrderStatusInput) (*domain.Order, error)
}
