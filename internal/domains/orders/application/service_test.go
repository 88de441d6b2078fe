package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/adapters/memory"
	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

var (
	alice = authz.Principal{AccountID: 1, Username: "alice", Authenticated: true}
	bob   = authz.Principal{AccountID: 2, Username: "bob", Authenticated: true}
	staff = authz.Principal{AccountID: 9, Username: "clerk", Staff: true, Authenticated: true}
)

type countingRepo struct {
	ports.Repository
	finds int
}

func (c *countingRepo) Find(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	c.finds++
	return c.Repository.Find(ctx, filter)
}

func newSeededService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	repo := &countingRepo{Repository: memory.NewRepository()}
	svc := NewService(repo)
	ctx := context.Background()
	for _, seed := range []struct {
		who    authz.Principal
		status string
	}{
		{alice, "pending"},
		{alice, "shipped"},
		{bob, "shipped"},
		{bob, "delivered"},
	} {
		_, err := svc.PlaceOrder(ctx, seed.who, ordertypes.PlaceOrderInput{Status: seed.status})
		require.NoError(t, err)
	}
	return svc, repo
}

func str(s string) *string { return &s }

func TestListOrders_NonStaffSeesOnlyOwnOrders(t *testing.T) {
	svc, _ := newSeededService(t)

	orders, err := svc.ListOrders(context.Background(), alice, ordertypes.ListOrdersQuery{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, alice.AccountID, o.CustomerID)
	}
}

func TestListOrders_StaffSeesEverything(t *testing.T) {
	svc, _ := newSeededService(t)

	orders, err := svc.ListOrders(context.Background(), staff, ordertypes.ListOrdersQuery{})
	require.NoError(t, err)
	require.Len(t, orders, 4)

	shipped, err := svc.ListOrders(context.Background(), staff, ordertypes.ListOrdersQuery{Status: str("shipped")})
	require.NoError(t, err)
	require.Len(t, shipped, 2)
}

func TestListOrders_StatusFilterNeverWidensScope(t *testing.T) {
	svc, _ := newSeededService(t)

	orders, err := svc.ListOrders(context.Background(), alice, ordertypes.ListOrdersQuery{Status: str("delivered")})
	require.NoError(t, err)
	require.Empty(t, orders)

	orders, err = svc.ListOrders(context.Background(), alice, ordertypes.ListOrdersQuery{Status: str("shipped"), Search: "ship"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, alice.AccountID, orders[0].CustomerID)
}

func TestListOrders_BlankStatusMeansNoFilter(t *testing.T) {
	svc, _ := newSeededService(t)

	for _, status := range []string{"", "  "} {
		orders, err := svc.ListOrders(context.Background(), alice, ordertypes.ListOrdersQuery{Status: str(status)})
		require.NoError(t, err)
		require.Len(t, orders, 2, "status %q", status)
	}
}

func TestListOrders_StatusFilterIsCaseSensitive(t *testing.T) {
	svc, _ := newSeededService(t)

	orders, err := svc.ListOrders(context.Background(), staff, ordertypes.ListOrdersQuery{Status: str("SHIPPED")})
	require.NoError(t, err)
	require.Empty(t, orders)

	orders, err = svc.ListOrders(context.Background(), staff, ordertypes.ListOrdersQuery{Search: "SHIPPED"})
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

func TestListOrders_AnonymousGetsEmptyWithoutStorage(t *testing.T) {
	svc, repo := newSeededService(t)

	orders, err := svc.ListOrders(context.Background(), authz.Anonymous(), ordertypes.ListOrdersQuery{Status: str("shipped")})
	require.NoError(t, err)
	require.NotNil(t, orders)
	require.Empty(t, orders)
	require.Zero(t, repo.finds)
}

func TestListOrders_Ordering(t *testing.T) {
	svc, _ := newSeededService(t)

	orders, err := svc.ListOrders(context.Background(), staff, ordertypes.ListOrdersQuery{Ordering: []string{"-status", "bogus"}})
	require.NoError(t, err)
	require.Len(t, orders, 4)
	require.Equal(t, domain.Status("shipped"), orders[0].Status)
	require.Equal(t, domain.Status("delivered"), orders[3].Status)
}

func TestPlaceOrder_IgnoresSuppliedCustomer(t *testing.T) {
	svc := NewService(memory.NewRepository())
	other := int64(2)

	order, err := svc.PlaceOrder(context.Background(), alice, ordertypes.PlaceOrderInput{CustomerID: &other})
	require.NoError(t, err)
	require.Equal(t, alice.AccountID, order.CustomerID)
	require.Equal(t, "alice", order.CustomerUsername)
	require.Equal(t, domain.StatusPending, order.Status)
}

func TestPlaceOrder_RequiresAuthentication(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.PlaceOrder(context.Background(), authz.Anonymous(), ordertypes.PlaceOrderInput{})
	require.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestPlaceOrder_InvalidStatus(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.PlaceOrder(context.Background(), alice, ordertypes.PlaceOrderInput{Status: "this status is far too long to be stored in an order"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOrder_HidesOtherCustomersOrders(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	bobs, err := svc.ListOrders(ctx, bob, ordertypes.ListOrdersQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, bobs)

	_, err = svc.GetOrder(ctx, alice, bobs[0].ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.GetOrder(ctx, authz.Anonymous(), bobs[0].ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	got, err := svc.GetOrder(ctx, bob, bobs[0].ID)
	require.NoError(t, err)
	require.Equal(t, bobs[0].ID, got.ID)

	got, err = svc.GetOrder(ctx, staff, bobs[0].ID)
	require.NoError(t, err)
	require.Equal(t, bob.AccountID, got.CustomerID)
}

func TestUpdateOrderStatus_StaffOnly(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()
	mine, err := svc.ListOrders(ctx, alice, ordertypes.ListOrdersQuery{})
	require.NoError(t, err)
	id := mine[0].ID

	_, err = svc.UpdateOrderStatus(ctx, authz.Anonymous(), ordertypes.UpdateOrderStatusInput{ID: id, Status: "shipped"})
	require.ErrorIs(t, err, authz.ErrUnauthorized)

	_, err = svc.UpdateOrderStatus(ctx, alice, ordertypes.UpdateOrderStatusInput{ID: id, Status: "shipped"})
	require.ErrorIs(t, err, authz.ErrForbidden)

	updated, err := svc.UpdateOrderStatus(ctx, staff, ordertypes.UpdateOrderStatusInput{ID: id, Status: " delivered "})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, updated.Status)
	require.Equal(t, alice.AccountID, updated.CustomerID)

	_, err = svc.UpdateOrderStatus(ctx, staff, ordertypes.UpdateOrderStatusInput{ID: 999, Status: "shipped"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestParseOrdering(t *testing.T) {
	sorts := ParseOrdering([]string{"-created_at,status", "status", "unknown", ""})
	require.Equal(t, []ports.Sort{
		{Field: ports.SortByCreatedAt, Descending: true},
		{Field: ports.SortByStatus},
	}, sorts)
}

func TestParseSearchTerms(t *testing.T) {
	require.Equal(t, []string{"ship", "ped"}, ParseSearchTerms(" ship, ped "))
	require.Empty(t, ParseSearchTerms("  , "))
}

func TestPlaceOrder_IdempotencyKeyReplaysOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := NewService(repo, WithIdempotencyStore(memory.NewIdempotencyStore()))

	first, err := svc.PlaceOrder(ctx, alice, ordertypes.PlaceOrderInput{IdempotencyKey: "k1"})
	require.NoError(t, err)
	again, err := svc.PlaceOrder(ctx, alice, ordertypes.PlaceOrderInput{Status: "pending", IdempotencyKey: "k1"})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	_, err = svc.PlaceOrder(ctx, alice, ordertypes.PlaceOrderInput{Status: "shipped", IdempotencyKey: "k1"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	other, err := svc.PlaceOrder(ctx, bob, ordertypes.PlaceOrderInput{IdempotencyKey: "k1"})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, other.ID)

	all, err := repo.Find(ctx, ports.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestPlaceOrder_WithoutKeyAlwaysCreates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository(), WithIdempotencyStore(memory.NewIdempotencyStore()))

	first, err := svc.PlaceOrder(ctx, alice, ordertypes.PlaceOrderInput{})
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, alice, ordertypes.PlaceOrderInput{})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}
