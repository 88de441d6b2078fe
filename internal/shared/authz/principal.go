// Package authz holds the request principal and the access policy consulted by every service.
package authz

import "context"

// Principal is the actor behind a request. The zero value is anonymous.
type Principal struct {
	AccountID     int64
	Username      string
	Email         string
	Staff         bool
	Authenticated bool
}

// Anonymous returns the principal used when no credentials were presented.
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports whether the principal was resolved from valid credentials.
func (p Principal) IsAuthenticated() bool {
	return p.Authenticated && p.AccountID > 0
}

// IsStaff reports whether the principal is an authenticated staff member.
func (p Principal) IsStaff() bool {
	return p.IsAuthenticated() && p.Staff
}

// Owns reports whether the principal is the customer identified by accountID.
func (p Principal) Owns(accountID int64) bool {
	return p.IsAuthenticated() && accountID > 0 && p.AccountID == accountID
}

type principalKey struct{}

// WithPrincipal stores the principal on the context for transport adapters.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal, or an anonymous principal.
func FromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Anonymous()
	}
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
