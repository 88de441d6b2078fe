package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/domain"
)

var ErrNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid username or password")

// Fields that carry a storage-level uniqueness guarantee.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// UniqueViolation reports that a write collided with an existing account.
// Field is empty when the violated constraint is not one of the known ones.
type UniqueViolation struct {
	Field string
	Err   error
}

func (e *UniqueViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unique constraint violated: %v", e.Err)
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *UniqueViolation) Unwrap() error { return e.Err }

// Repository persists accounts.
type Repository interface {
	// Create inserts a new account. Duplicate usernames or emails fail with *UniqueViolation.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	SetStaff(ctx context.Context, id int64, staff bool) (*domain.Account, error)
}
