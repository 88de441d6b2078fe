package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	catalogtypes "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

// Service orchestrates the catalog use cases.
type Service struct {
	repo   ports.Repository
	policy authz.Policy
}

// Option customises the catalog service.
type Option func(*Service)

// WithPolicy overrides the access policy.
func WithPolicy(policy authz.Policy) Option {
	return func(s *Service) { s.policy = policy }
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, policy: authz.DefaultPolicy}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddBook persists a new book. Staff only.
func (s *Service) AddBook(ctx context.Context, principal authz.Principal, input catalogtypes.AddBookInput) (*catalogtypes.BookProjection, error) {
	if err := s.policy.Authorize(principal, authz.ActionCreate, authz.ResourceBook); err != nil {
		return nil, err
	}
	book, err := buildBook(input.BookMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, book)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateBook applies the provided fields to an existing book. Staff only.
func (s *Service) UpdateBook(ctx context.Context, principal authz.Principal, input catalogtypes.UpdateBookInput) (*catalogtypes.BookProjection, error) {
	if err := s.policy.Authorize(principal, authz.ActionUpdate, authz.ResourceBook); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	book := current.Entity.Clone()
	if err := applyMutation(book, input.BookMutationInput); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, book)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetBook loads a single book. Public.
func (s *Service) GetBook(ctx context.Context, principal authz.Principal, id int64) (*catalogtypes.BookProjection, error) {
	if err := s.policy.Authorize(principal, authz.ActionRead, authz.ResourceBook); err != nil {
		return nil, err
	}
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return book, nil
}

// ListBooks returns the whole catalog. Public.
func (s *Service) ListBooks(ctx context.Context, principal authz.Principal) ([]*catalogtypes.BookProjection, error) {
	if err := s.policy.Authorize(principal, authz.ActionRead, authz.ResourceBook); err != nil {
		return nil, err
	}
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return books, nil
}

// DeleteBook removes a book. Staff only.
func (s *Service) DeleteBook(ctx context.Context, principal authz.Principal, id int64) error {
	if err := s.policy.Authorize(principal, authz.ActionDelete, authz.ResourceBook); err != nil {
		return err
	}
	return mapError(s.repo.Delete(ctx, id))
}

// Restock adds a positive integer amount to a book's stock. The staff guard
// and the policy check must both pass.
func (s *Service) Restock(ctx context.Context, principal authz.Principal, input catalogtypes.RestockInput) (*catalogtypes.RestockResult, error) {
	if !principal.IsStaff() {
		return nil, fmt.Errorf("%w: %w", authz.ErrForbidden, ErrRestockForbidden)
	}
	if err := s.policy.Authorize(principal, authz.ActionRestock, authz.ResourceBook); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, input.BookID); err != nil {
		return nil, mapError(err)
	}
	amount, err := ParseRestockQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.IncrementQuantity(ctx, input.BookID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return &catalogtypes.RestockResult{
		Message:  fmt.Sprintf("Restocked %d units of '%s'.", amount, updated.Entity.Title),
		Quantity: amount,
		Book:     updated,
	}, nil
}

// ParseRestockQuantity accepts base-10 integers greater than zero; surrounding
// whitespace is ignored.
func ParseRestockQuantity(raw string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	if amount <= 0 {
		return 0, mapError(domain.ErrInvalidRestock)
	}
	return amount, nil
}

func buildBook(input catalogtypes.BookMutationInput) (*domain.Book, error) {
	if input.Title == nil {
		return nil, domain.ErrEmptyTitle
	}
	var quantity int64
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	book, err := domain.NewBook(0, *input.Title, quantity)
	if err != nil {
		return nil, err
	}
	partial := input
	partial.Title = nil
	partial.Quantity = nil
	if err := applyMutation(book, partial); err != nil {
		return nil, err
	}
	return book, nil
}

func applyMutation(target *domain.Book, input catalogtypes.BookMutationInput) error {
	if input.Title != nil {
		if err := target.Retitle(*input.Title); err != nil {
			return err
		}
	}
	if input.Quantity != nil {
		if err := target.SetQuantity(*input.Quantity); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := target.SetPrice(*input.Price); err != nil {
			return err
		}
	}
	if input.Tags != nil {
		target.ReplaceTags(*input.Tags)
	}
	author, isbn, description := target.Author, target.ISBN, target.Description
	if input.Author != nil {
		author = *input.Author
	}
	if input.ISBN != nil {
		isbn = *input.ISBN
	}
	if input.Description != nil {
		description = *input.Description
	}
	target.Describe(author, isbn, description)
	return nil
}

var _ ports.Service = (*Service)(nil)
