package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]domain.Order
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]domain.Order{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *order
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.orders[stored.ID] = stored
	return &stored, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &order, nil
}

func (r *Repository) Find(_ context.Context, filter ports.Filter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if !matches(order, filter) {
			continue
		}
		o := order
		list = append(list, &o)
	}
	sortOrders(list, filter.Sort)
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	order.UpdatedAt = r.now()
	r.orders[id] = order
	return &order, nil
}

func matches(order domain.Order, filter ports.Filter) bool {
	if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
		return false
	}
	if filter.Status != nil && string(order.Status) != *filter.Status {
		return false
	}
	status := strings.ToLower(string(order.Status))
	for _, term := range filter.SearchTerms {
		if !strings.Contains(status, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func sortOrders(list []*domain.Order, sorts []ports.Sort) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		for _, s := range sorts {
			var cmp int
			switch s.Field {
			case ports.SortByCreatedAt:
				cmp = a.CreatedAt.Compare(b.CreatedAt)
			case ports.SortByStatus:
				cmp = strings.Compare(string(a.Status), string(b.Status))
			}
			if s.Descending {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return a.ID < b.ID
	})
}
