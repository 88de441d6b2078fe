package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

const (
	// PlaceOrderActivityName persists a new order for the requesting principal.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"

	// Application error types carried across the workflow boundary so callers
	// can map them back to the service's sentinel errors.
	ErrorTypeUnauthorized = "orders.Unauthorized"
	ErrorTypeForbidden    = "orders.Forbidden"
	ErrorTypeInvalidInput = "orders.InvalidInput"
	ErrorTypeConflict     = "orders.IdempotencyConflict"
)

// PlaceOrderInput is the activity payload.
type PlaceOrderInput struct {
	Principal authz.Principal
	Command   ordertypes.PlaceOrderInput
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder creates the order. Domain rejections are returned as
// non-retryable application errors.
func (a *Activities) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized")
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "accountId", input.Principal.AccountID)
	order, err := a.service.PlaceOrder(ctx, input.Principal, input.Command)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "accountId", input.Principal.AccountID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

func toApplicationError(err error) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeUnauthorized, err)
	case errors.Is(err, authz.ErrForbidden):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeForbidden, err)
	case errors.Is(err, orderapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeConflict, err)
	default:
		return err
	}
}
