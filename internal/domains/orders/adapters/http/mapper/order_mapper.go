package mapper

import (
	"time"

	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
)

// Order is the transport shape of an order.
type Order struct {
	ID               int64     `json:"id"`
	Customer         int64     `json:"customer"`
	CustomerUsername string    `json:"customerUsername,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PlaceOrderRequest is the body of POST /api/orders. Customer is read so it
// can be discarded; the owner always comes from the authenticated caller.
type PlaceOrderRequest struct {
	Customer *int64 `json:"customer,omitempty"`
	Status   string `json:"status,omitempty"`
}

// UpdateOrderStatusRequest is the body of PATCH /api/orders/:orderId.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ToPlaceOrderInput converts a transport request into the application command.
func ToPlaceOrderInput(req PlaceOrderRequest, idempotencyKey string) ordertypes.PlaceOrderInput {
	return ordertypes.PlaceOrderInput{
		CustomerID:     req.Customer,
		Status:         req.Status,
		IdempotencyKey: idempotencyKey,
	}
}

// ToUpdateOrderStatusInput converts a transport request into the application command.
func ToUpdateOrderStatusInput(id int64, req UpdateOrderStatusRequest) ordertypes.UpdateOrderStatusInput {
	return ordertypes.UpdateOrderStatusInput{ID: id, Status: req.Status}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:               order.ID,
		Customer:         order.CustomerID,
		CustomerUsername: order.CustomerUsername,
		Status:           string(order.Status),
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

// FromDomainOrders converts a list, always returning a non-nil slice.
func FromDomainOrders(orders []*orderdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
