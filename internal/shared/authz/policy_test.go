package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	anonymous = Anonymous()
	customer  = Principal{AccountID: 7, Username: "reader", Authenticated: true}
	staff     = Principal{AccountID: 1, Username: "admin", Staff: true, Authenticated: true}
)

func TestPolicy_BookReadsArePublic(t *testing.T) {
	policy := NewPolicy(nil)
	for _, p := range []Principal{anonymous, customer, staff} {
		assert.True(t, policy.Permits(p, ActionRead, ResourceBook))
	}
}

func TestPolicy_BookMutationsRequireStaff(t *testing.T) {
	policy := NewPolicy(nil)
	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete, ActionRestock} {
		require.ErrorIs(t, policy.Authorize(anonymous, action, ResourceBook), ErrForbidden, action)
		require.ErrorIs(t, policy.Authorize(customer, action, ResourceBook), ErrForbidden, action)
		require.NoError(t, policy.Authorize(staff, action, ResourceBook), action)
	}
}

func TestPolicy_OrderCreateRequiresAuthentication(t *testing.T) {
	policy := NewPolicy(nil)
	require.ErrorIs(t, policy.Authorize(anonymous, ActionCreate, ResourceOrder), ErrUnauthorized)
	require.NoError(t, policy.Authorize(customer, ActionCreate, ResourceOrder))
	require.NoError(t, policy.Authorize(staff, ActionCreate, ResourceOrder))
}

func TestPolicy_OrderUpdateRequiresAuthenticatedStaff(t *testing.T) {
	policy := NewPolicy(nil)
	require.ErrorIs(t, policy.Authorize(anonymous, ActionUpdate, ResourceOrder), ErrUnauthorized)
	require.ErrorIs(t, policy.Authorize(customer, ActionUpdate, ResourceOrder), ErrForbidden)
	require.NoError(t, policy.Authorize(staff, ActionUpdate, ResourceOrder))
}

func TestPolicy_UnknownRuleIsDenied(t *testing.T) {
	policy := NewPolicy(nil)
	require.ErrorIs(t, policy.Authorize(staff, ActionDelete, ResourceOrder), ErrForbidden)
	require.ErrorIs(t, policy.Authorize(staff, ActionRead, Resource("invoice")), ErrForbidden)
}

func TestPolicy_ZeroValueFallsBackToDefaults(t *testing.T) {
	var policy Policy
	assert.True(t, policy.Permits(anonymous, ActionRead, ResourceBook))
	assert.False(t, policy.Permits(customer, ActionRestock, ResourceBook))
}

func TestPrincipal_StaffFlagNeedsAuthentication(t *testing.T) {
	forged := Principal{AccountID: 3, Staff: true}
	assert.False(t, forged.IsAuthenticated())
	assert.False(t, forged.IsStaff())
	assert.True(t, staff.IsStaff())
	assert.True(t, customer.Owns(7))
	assert.False(t, customer.Owns(8))
	assert.False(t, anonymous.Owns(0))
}

func TestPrincipal_ContextRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), customer)
	assert.Equal(t, customer, FromContext(ctx))
	assert.Equal(t, Anonymous(), FromContext(context.Background()))
}
