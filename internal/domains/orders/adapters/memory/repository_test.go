package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
)

func seed(t *testing.T, repo *Repository, customerID int64, status domain.Status) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(customerID, "", status)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestFind_AppliesCustomerStatusAndSearch(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, 1, domain.StatusPending)
	seed(t, repo, 1, domain.StatusShipped)
	seed(t, repo, 2, domain.StatusShipped)

	customer := int64(1)
	status := "shipped"
	got, err := repo.Find(context.Background(), ports.Filter{CustomerID: &customer, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].CustomerID)

	got, err = repo.Find(context.Background(), ports.Filter{SearchTerms: []string{"SHIP"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestFind_SortsByRequestedFieldsThenID(t *testing.T) {
	repo := NewRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	first := seed(t, repo, 1, domain.StatusShipped)
	second := seed(t, repo, 1, domain.StatusCancelled)
	third := seed(t, repo, 1, domain.StatusShipped)

	got, err := repo.Find(context.Background(), ports.Filter{Sort: []ports.Sort{{Field: ports.SortByCreatedAt, Descending: true}}})
	require.NoError(t, err)
	require.Equal(t, []int64{third.ID, second.ID, first.ID}, ids(got))

	got, err = repo.Find(context.Background(), ports.Filter{Sort: []ports.Sort{{Field: ports.SortByStatus}}})
	require.NoError(t, err)
	require.Equal(t, []int64{second.ID, first.ID, third.ID}, ids(got))
}

func TestUpdateStatus_PreservesCreatedAt(t *testing.T) {
	repo := NewRepository()
	created := seed(t, repo, 4, domain.StatusPending)

	updated, err := repo.UpdateStatus(context.Background(), created.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, updated.Status)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, created.CustomerID, updated.CustomerID)

	_, err = repo.UpdateStatus(context.Background(), 99, domain.StatusDelivered)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func ids(list []*domain.Order) []int64 {
	out := make([]int64, 0, len(list))
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}
