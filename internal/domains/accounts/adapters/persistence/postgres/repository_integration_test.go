//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/platform/migrations"
)

func setupAccountsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newAccount(t *testing.T, username, email string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(username, email, "hash")
	require.NoError(t, err)
	return account
}

func TestRepository_CreateAndLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAccountsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount(t, "alice", "alice@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Staff)
	assert.False(t, created.DateJoined.IsZero())

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	promoted, err := repo.SetStaff(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.Staff)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UniqueViolationsNameTheField(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAccountsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount(t, "alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAccount(t, "alice", "other@example.com"))
	var unique *ports.UniqueViolation
	require.True(t, errors.As(err, &unique))
	assert.Equal(t, ports.FieldUsername, unique.Field)

	_, err = repo.Create(ctx, newAccount(t, "bob", "alice@example.com"))
	require.True(t, errors.As(err, &unique))
	assert.Equal(t, ports.FieldEmail, unique.Field)
}

func TestSessionStore_LookupAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAccountsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	account, err := repo.Create(ctx, newAccount(t, "alice", "alice@example.com"))
	require.NoError(t, err)

	store := NewSessionStore(db, time.Hour)
	require.NoError(t, store.Save(ctx, "live-token", account.ID))
	id, err := store.Lookup(ctx, "live-token")
	require.NoError(t, err)
	assert.Equal(t, account.ID, id)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Create(&sessionRecord{Token: "stale-token", AccountID: account.ID, ExpiresAt: &past}).Error)
	_, err = store.Lookup(ctx, "stale-token")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, store.Delete(ctx, "live-token"))
	_, err = store.Lookup(ctx, "live-token")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
