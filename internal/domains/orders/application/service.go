package application

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

// Service orchestrates order use cases.
type Service struct {
	repo        ports.Repository
	policy      authz.Policy
	idempotency ports.IdempotencyStore
}

// Option customises the order service.
type Option func(*Service)

// WithPolicy overrides the access policy.
func WithPolicy(policy authz.Policy) Option {
	return func(s *Service) { s.policy = policy }
}

// WithIdempotencyStore enables replay of placements that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// NewService wires the order service with its repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, policy: authz.DefaultPolicy}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder creates an order owned by the requesting principal. Any customer
// carried by the input is ignored.
func (s *Service) PlaceOrder(ctx context.Context, principal authz.Principal, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if err := s.policy.Authorize(principal, authz.ActionCreate, authz.ResourceOrder); err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(principal.AccountID, principal.Username, domain.Status(input.Status))
	if err != nil {
		return nil, mapError(err)
	}
	if s.idempotency == nil || input.IdempotencyKey == "" {
		created, err := s.repo.Create(ctx, order)
		if err != nil {
			return nil, mapError(err)
		}
		return created, nil
	}
	return s.placeIdempotent(ctx, principal, order, input.IdempotencyKey)
}

// placeIdempotent returns the order a previous request with the same key
// produced, or creates it and records the key.
func (s *Service) placeIdempotent(ctx context.Context, principal authz.Principal, order *domain.Order, key string) (*domain.Order, error) {
	hash, err := fingerprintPlaceOrder(order.Status)
	if err != nil {
		return nil, err
	}
	existing, err := s.idempotency.Get(ctx, principal.AccountID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.RequestHash != hash {
			return nil, ports.ErrIdempotencyConflict
		}
		return s.repo.GetByID(ctx, existing.OrderID)
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		AccountID:   principal.AccountID,
		Key:         key,
		RequestHash: hash,
		OrderID:     created.ID,
	})
	if err != nil {
		return nil, err
	}
	// A concurrent request with the same key won the race.
	if saved.OrderID != created.ID {
		return s.repo.GetByID(ctx, saved.OrderID)
	}
	return created, nil
}

// ListOrders returns every order for staff and only the caller's own orders
// otherwise. Anonymous callers see nothing.
func (s *Service) ListOrders(ctx context.Context, principal authz.Principal, query ordertypes.ListOrdersQuery) ([]*domain.Order, error) {
	if err := s.policy.Authorize(principal, authz.ActionRead, authz.ResourceOrder); err != nil {
		return nil, err
	}
	if !principal.IsAuthenticated() {
		return []*domain.Order{}, nil
	}
	orders, err := s.repo.Find(ctx, scopedFilter(principal, query))
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// GetOrder loads a single order visible to the principal. Orders outside the
// caller's scope are reported as not found.
func (s *Service) GetOrder(ctx context.Context, principal authz.Principal, id int64) (*domain.Order, error) {
	if err := s.policy.Authorize(principal, authz.ActionRead, authz.ResourceOrder); err != nil {
		return nil, err
	}
	if !principal.IsAuthenticated() {
		return nil, ports.ErrNotFound
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsStaff() && !principal.Owns(order.CustomerID) {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// UpdateOrderStatus changes an order's status. Authenticated staff only.
func (s *Service) UpdateOrderStatus(ctx context.Context, principal authz.Principal, input ordertypes.UpdateOrderStatusInput) (*domain.Order, error) {
	if err := s.policy.Authorize(principal, authz.ActionUpdate, authz.ResourceOrder); err != nil {
		return nil, err
	}
	status, err := domain.NormalizeStatus(domain.Status(input.Status))
	if err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.UpdateStatus(ctx, input.ID, status)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

var _ ports.Service = (*Service)(nil)
