package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

const tracerName = "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, principal authz.Principal, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.Int64("principal.account_id", principal.AccountID),
		attribute.Bool("order.idempotent", strings.TrimSpace(input.IdempotencyKey) != ""),
	))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("principal", principal.Username))
	order, err := s.inner.PlaceOrder(ctx, principal, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("principal", principal.Username))
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	s.metrics.recordPlaced(ctx, order.Status)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", order.ID), slog.Int64("customer.id", order.CustomerID))
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, principal authz.Principal, query ordertypes.ListOrdersQuery) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(
		attribute.Bool("principal.staff", principal.IsStaff()),
		attribute.Bool("query.status", query.Status != nil),
		attribute.Int("query.ordering", len(query.Ordering)),
	))
	defer span.End()

	orders, err := s.inner.ListOrders(ctx, principal, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, principal authz.Principal, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, principal, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, principal authz.Principal, input ordertypes.UpdateOrderStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus", trace.WithAttributes(attribute.Int64("order.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", input.ID), slog.String("status", input.Status))
	order, err := s.inner.UpdateOrderStatus(ctx, principal, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", input.ID))
	}
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", order.ID), slog.String("status", string(order.Status)))
	return order, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	placed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	return serviceMetrics{placed: placed}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status domain.Status) {
	if m.placed != nil {
		m.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}
}

var _ orderports.Service = (*Service)(nil)
