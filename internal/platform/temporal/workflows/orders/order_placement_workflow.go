package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-inventory-api/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-inventory-api/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the caller and the order command.
type OrderPlacementWorkflowInput struct {
	Placement orderactivities.PlaceOrderInput
	TraceID   string
}

// OrderPlacementWorkflow runs the order placement sequence.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	accountID := input.Placement.Principal.AccountID
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "accountId", accountID)...)
	order, err := sequences.RunOrderPlacementSequence(ctx, input.Placement)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "accountId", accountID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
