package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	ordermemory "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-inventory-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-inventory-api/internal/platform/postgres"
	orderactivities "github.com/Apurer/go-gin-inventory-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-inventory-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "inventory-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, idempotency, cleanupRepo, err := buildOrderRepository(ctx, logger)
	if err != nil {
		logger.Error("failed to prepare order repository", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupRepo()
	orderService := orderobs.New(
		orderapp.NewService(orderRepo, orderapp.WithIdempotencyStore(idempotency)),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderRepository shares the API's database. The in-memory fallback is
// only useful for local experiments since the API cannot read its orders.
func buildOrderRepository(ctx context.Context, logger *slog.Logger) (orderports.Repository, orderports.IdempotencyStore, func(), error) {
	db, cleanup, err := platformpostgres.Open(ctx, os.Getenv("POSTGRES_DSN"), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if db == nil {
		logger.Warn("worker order repository running in memory")
		return ordermemory.NewRepository(), ordermemory.NewIdempotencyStore(), cleanup, nil
	}
	logger.Info("worker order repository configured with postgres")
	return orderpostgres.NewRepository(db), orderpostgres.NewIdempotencyStore(db), cleanup, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
