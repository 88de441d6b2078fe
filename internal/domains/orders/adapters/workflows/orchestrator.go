package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-inventory-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-inventory-api/internal/platform/temporal/workflows/orders"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the placement workflow and waits for its result. Requests
// sharing an account, idempotency key and status join one run; a different
// status under the same key gets its own run so the service can reject it.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, principal authz.Principal, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(principal, input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,

		// Surface a duplicate start so the running execution can be joined.
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{
			Placement: orderactivities.PlaceOrderInput{Principal: principal, Command: input},
			TraceID:   traceComponent,
		},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			var order domain.Order
			if err := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId).Get(ctx, &order); err != nil {
				return nil, fromWorkflowError(err)
			}
			return &order, nil
		}
		return nil, err
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, fromWorkflowError(err)
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, principal authz.Principal, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.PlaceOrder(ctx, principal, input)
}

// fromWorkflowError restores the service sentinel carried by an activity failure.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrorTypeUnauthorized:
		return fmt.Errorf("%w: %s", authz.ErrUnauthorized, appErr.Message())
	case orderactivities.ErrorTypeForbidden:
		return fmt.Errorf("%w: %s", authz.ErrForbidden, appErr.Message())
	case orderactivities.ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", orderapp.ErrInvalidInput, appErr.Message())
	case orderactivities.ErrorTypeConflict:
		return fmt.Errorf("%w: %s", ports.ErrIdempotencyConflict, appErr.Message())
	default:
		return err
	}
}

func buildOrderPlacementWorkflowID(principal authz.Principal, input ordertypes.PlaceOrderInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%d-%s", principal.AccountID, hashIdempotencyKey(key, input.Status))
	}
	return fmt.Sprintf("order-placement-%d-%s", principal.AccountID, traceComponent)
}

func hashIdempotencyKey(key, status string) string {
	sum := sha256.Sum256([]byte(key + "\x00" + strings.TrimSpace(status)))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
