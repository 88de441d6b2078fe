package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory account store enforcing the same uniqueness
// rules as the Postgres indexes. Email comparison is case-insensitive.
type Repository struct {
	mu       sync.RWMutex
	accounts map[int64]domain.Account
	nextID   int64
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{accounts: map[int64]domain.Account{}, now: time.Now}
}

func (r *Repository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return nil, &ports.UniqueViolation{Field: ports.FieldUsername}
		}
		if strings.EqualFold(existing.Email, account.Email) {
			return nil, &ports.UniqueViolation{Field: ports.FieldEmail}
		}
	}
	r.nextID++
	stored := *account
	stored.ID = r.nextID
	stored.DateJoined = r.now()
	r.accounts[stored.ID] = stored
	return &stored, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &account, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.Username == username {
			a := account
			return &a, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) SetStaff(_ context.Context, id int64, staff bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	account.Staff = staff
	r.accounts[id] = account
	return &account, nil
}
