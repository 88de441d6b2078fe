package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

const tracerName = "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) AddBook(ctx context.Context, principal authz.Principal, input catalogtypes.AddBookInput) (*catalogtypes.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddBook", trace.WithAttributes(principalAttrs(principal)...))
	defer span.End()

	s.logInfo(ctx, "adding book", slog.String("principal", principal.Username))
	result, err := s.inner.AddBook(ctx, principal, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add book", slog.String("principal", principal.Username))
	}
	span.SetAttributes(attribute.Int64("book.id", result.Entity.ID))
	s.metrics.recordMutation(ctx, "create")
	s.logInfo(ctx, "book added", slog.Int64("book.id", result.Entity.ID), slog.String("title", result.Entity.Title))
	return result, nil
}

func (s *Service) UpdateBook(ctx context.Context, principal authz.Principal, input catalogtypes.UpdateBookInput) (*catalogtypes.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateBook",
		trace.WithAttributes(append(principalAttrs(principal), attribute.Int64("book.id", input.ID))...))
	defer span.End()

	s.logInfo(ctx, "updating book", slog.Int64("book.id", input.ID))
	result, err := s.inner.UpdateBook(ctx, principal, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update book", slog.Int64("book.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "update")
	s.logInfo(ctx, "book updated", slog.Int64("book.id", result.Entity.ID))
	return result, nil
}

func (s *Service) GetBook(ctx context.Context, principal authz.Principal, id int64) (*catalogtypes.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBook", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	result, err := s.inner.GetBook(ctx, principal, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load book", slog.Int64("book.id", id))
	}
	return result, nil
}

func (s *Service) ListBooks(ctx context.Context, principal authz.Principal) ([]*catalogtypes.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListBooks")
	defer span.End()

	result, err := s.inner.ListBooks(ctx, principal)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list books")
	}
	span.SetAttributes(attribute.Int("book.count", len(result)))
	return result, nil
}

func (s *Service) DeleteBook(ctx context.Context, principal authz.Principal, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteBook",
		trace.WithAttributes(append(principalAttrs(principal), attribute.Int64("book.id", id))...))
	defer span.End()

	s.logInfo(ctx, "deleting book", slog.Int64("book.id", id))
	if err := s.inner.DeleteBook(ctx, principal, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete book", slog.Int64("book.id", id))
	}
	s.metrics.recordMutation(ctx, "delete")
	s.logInfo(ctx, "book deleted", slog.Int64("book.id", id))
	return nil
}

func (s *Service) Restock(ctx context.Context, principal authz.Principal, input catalogtypes.RestockInput) (*catalogtypes.RestockResult, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Restock",
		trace.WithAttributes(append(principalAttrs(principal), attribute.Int64("book.id", input.BookID))...))
	defer span.End()

	s.logInfo(ctx, "restocking book", slog.Int64("book.id", input.BookID), slog.String("principal", principal.Username))
	result, err := s.inner.Restock(ctx, principal, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to restock book", slog.Int64("book.id", input.BookID))
	}
	s.metrics.recordRestock(ctx, result.Quantity)
	s.logInfo(ctx, "book restocked",
		slog.Int64("book.id", input.BookID),
		slog.Int64("restock.quantity", result.Quantity),
		slog.Int64("book.quantity", result.Book.Entity.Quantity))
	return result, nil
}

func principalAttrs(p authz.Principal) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("principal.authenticated", p.IsAuthenticated()),
		attribute.Bool("principal.staff", p.IsStaff()),
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	mutations      metric.Int64Counter
	unitsRestocked metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("catalog.service.book_mutations", metric.WithDescription("Number of book create/update/delete operations"))
	unitsRestocked, _ := m.Int64Counter("catalog.service.books_restocked", metric.WithDescription("Units added to stock by restock operations"))
	return serviceMetrics{mutations: mutations, unitsRestocked: unitsRestocked}
}

func (m serviceMetrics) recordMutation(ctx context.Context, kind string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("mutation", kind)))
	}
}

func (m serviceMetrics) recordRestock(ctx context.Context, units int64) {
	if m.unitsRestocked != nil {
		m.unitsRestocked.Add(ctx, units)
	}
}

var _ catalogports.Service = (*Service)(nil)
