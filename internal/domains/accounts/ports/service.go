package ports

import (
	"context"

	accounttypes "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, input accounttypes.RegisterInput) (*accounttypes.Confirmation, error)
	Current(ctx context.Context, principal authz.Principal) (*accounttypes.IdentityView, error)
	Login(ctx context.Context, input accounttypes.LoginInput) (*accounttypes.Session, error)
	Logout(ctx context.Context, token string) error
	ResolvePrincipal(ctx context.Context, token string) (authz.Principal, error)
	EnsureStaff(ctx context.Context, input accounttypes.RegisterInput) (*accounttypes.IdentityView, error)
}
