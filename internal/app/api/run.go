package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	inventoryserver "github.com/Apurer/go-gin-inventory-api/go"

	accountmemory "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/memory"
	accountobs "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/observability"
	accountpostgres "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/redisstore"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/security"
	accountapp "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application"
	accounttypes "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application/types"
	accountports "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"

	catalogmemory "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"

	ordermemory "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"

	platformobservability "github.com/Apurer/go-gin-inventory-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-inventory-api/internal/platform/postgres"
)

const serviceName = "inventory-api"

// Run boots the inventory HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return err
	}
	defer cleanupDB()

	bookRepo, orderRepo, accountRepo := buildRepositories(db)
	idempotency := buildIdempotencyStore(db)
	sessions, cleanupSessions := buildSessionStore(ctx, cfg, db, logger)
	defer cleanupSessions()

	catalogService := catalogobs.New(
		catalogapp.NewService(bookRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := orderobs.New(
		orderapp.NewService(orderRepo, orderapp.WithIdempotencyStore(idempotency)),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	accountService := accountobs.New(
		accountapp.NewService(accountRepo, security.NewBcryptHasher(cfg.BcryptCost),
			accountapp.WithSessionStore(sessions),
			accountapp.WithLogger(logger),
		),
		accountobs.WithLogger(logger),
		accountobs.WithTracer(instruments.Tracer("internal.accounts.application")),
		accountobs.WithMeter(instruments.Meter("internal.accounts.application")),
	)

	if err := bootstrapStaff(ctx, cfg.Bootstrap, accountService, logger); err != nil {
		return err
	}

	var orderWorkflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := inventoryserver.ApiHandleFunctions{
		BookAPI:    inventoryserver.NewBookAPI(catalogService),
		OrderAPI:   inventoryserver.NewOrderAPI(orderService, orderWorkflows),
		AccountAPI: inventoryserver.NewAccountAPI(accountService),
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		inventoryserver.RequestID(),
		inventoryserver.RequestLogger(logger),
		inventoryserver.Authenticate(accountService),
	)
	router := inventoryserver.NewRouterWithGinEngine(engine, handlers)

	addr := cfg.Addr()
	logger.Info("inventory API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("inventory API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepositories(db *gorm.DB) (catalogports.Repository, orderports.Repository, accountports.Repository) {
	if db == nil {
		return catalogmemory.NewRepository(), ordermemory.NewRepository(), accountmemory.NewRepository()
	}
	return catalogpostgres.NewRepository(db), orderpostgres.NewRepository(db), accountpostgres.NewRepository(db)
}

func buildIdempotencyStore(db *gorm.DB) orderports.IdempotencyStore {
	if db == nil {
		return ordermemory.NewIdempotencyStore()
	}
	return orderpostgres.NewIdempotencyStore(db)
}

// buildSessionStore prefers Redis, then PostgreSQL, then process memory.
func buildSessionStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (accountports.SessionStore, func()) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("failed to connect to redis, falling back", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			_ = rdb.Close()
		} else {
			logger.Info("session store configured with redis", slog.String("addr", cfg.RedisAddr))
			return redisstore.NewSessionStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }
		}
	}
	if db != nil {
		store := accountpostgres.NewSessionStore(db, cfg.SessionTTL)
		stop := startSessionPurger(ctx, store, cfg.SessionPurgeIntervalMinute, logger)
		logger.Info("session store configured with postgres")
		return store, stop
	}
	logger.Warn("session store configured in memory; sessions do not survive restarts")
	return accountmemory.NewSessionStore(cfg.SessionTTL), func() {}
}

// startSessionPurger deletes expired sessions on a fixed interval. A zero
// interval disables it; the session-purger command covers that deployment.
func startSessionPurger(ctx context.Context, store *accountpostgres.SessionStore, intervalMinutes int, logger *slog.Logger) func() {
	if intervalMinutes <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := store.PurgeExpired(ctx)
				if err != nil {
					logger.Error("session purge failed", slog.String("error", err.Error()))
					continue
				}
				logger.Info("expired sessions purged", slog.Int64("count", purged))
			}
		}
	}()
	return cancel
}

func bootstrapStaff(ctx context.Context, bootstrap StaffBootstrap, accounts accountports.Service, logger *slog.Logger) error {
	if !bootstrap.Enabled() {
		return nil
	}
	view, err := accounts.EnsureStaff(ctx, accounttypes.RegisterInput{
		Username: bootstrap.Username,
		Email:    bootstrap.Email,
		Password: bootstrap.Password,
	})
	if err != nil {
		return fmt.Errorf("bootstrap staff account: %w", err)
	}
	logger.Info("staff account ready", slog.String("username", view.Username), slog.Int64("account.id", view.ID))
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
