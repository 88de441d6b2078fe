package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	accountapp "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application"
	accounttypes "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application/types"
	accountports "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

const tracerName = "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/observability/service"

// Service decorates the accounts service with tracing, logging, and metrics.
type Service struct {
	inner   accountports.Service
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

// New wraps the core accounts service.
func New(inner accountports.Service, opts ...Option) accountports.Service {
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

func (s *Service) Register(ctx context.Context, input accounttypes.RegisterInput) (*accounttypes.Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Register")
	defer span.End()

	result, err := s.inner.Register(ctx, input)
	if err != nil {
		s.metrics.recordRegistration(ctx, registrationOutcome(err))
		return nil, s.handleError(ctx, span, err, "registration rejected", slog.String("username", input.Username))
	}
	span.SetAttributes(attribute.Int64("account.id", result.AccountID))
	s.metrics.recordRegistration(ctx, "created")
	s.logInfo(ctx, "account registered", slog.Int64("account.id", result.AccountID), slog.String("username", input.Username))
	return result, nil
}

func (s *Service) Current(ctx context.Context, principal authz.Principal) (*accounttypes.IdentityView, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Current", trace.WithAttributes(attribute.Int64("account.id", principal.AccountID)))
	defer span.End()

	view, err := s.inner.Current(ctx, principal)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load current identity")
	}
	return view, nil
}

func (s *Service) Login(ctx context.Context, input accounttypes.LoginInput) (*accounttypes.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Login")
	defer span.End()

	session, err := s.inner.Login(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "login failed", slog.String("username", input.Username))
	}
	s.logInfo(ctx, "login succeeded", slog.String("username", input.Username))
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AccountService.Logout")
	defer span.End()

	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

// ResolvePrincipal runs on every request, so it only traces.
func (s *Service) ResolvePrincipal(ctx context.Context, token string) (authz.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.ResolvePrincipal")
	defer span.End()

	principal, err := s.inner.ResolvePrincipal(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return principal, err
	}
	span.SetAttributes(attribute.Bool("principal.authenticated", principal.IsAuthenticated()))
	return principal, nil
}

func (s *Service) EnsureStaff(ctx context.Context, input accounttypes.RegisterInput) (*accounttypes.IdentityView, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.EnsureStaff")
	defer span.End()

	view, err := s.inner.EnsureStaff(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to ensure staff account", slog.String("username", input.Username))
	}
	s.logInfo(ctx, "staff account ready", slog.Int64("account.id", view.ID), slog.String("username", view.Username))
	return view, nil
}

func registrationOutcome(err error) string {
	var conflict *accountapp.ConflictError
	var invalid *accountapp.ValidationError
	switch {
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &invalid):
		return "invalid"
	default:
		return "error"
	}
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
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	registrations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registrations, _ := m.Int64Counter("accounts.service.registrations", metric.WithDescription("Registration attempts by outcome"))
	return serviceMetrics{registrations: registrations}
}

func (m serviceMetrics) recordRegistration(ctx context.Context, outcome string) {
	if m.registrations != nil {
		m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

var _ accountports.Service = (*Service)(nil)
