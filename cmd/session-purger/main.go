package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	accountpostgres "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-inventory-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup, err := platformpostgres.Open(ctx, os.Getenv("POSTGRES_DSN"), logger)
	if err != nil {
		log.Fatalf("failed to prepare database: %v", err)
	}
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := accountpostgres.NewSessionStore(db, sessionTTLFromEnv())
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("count", purged))
}

func sessionTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))
	if raw == "" {
		return accountpostgres.DefaultSessionTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return accountpostgres.DefaultSessionTTL
	}
	return time.Duration(hours) * time.Hour
}
