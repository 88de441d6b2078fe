package domain

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle       = errors.New("book title is required")
	ErrNegativeQuantity = errors.New("book quantity must be greater or equal to zero")
	ErrNegativePrice    = errors.New("book price must be greater or equal to zero")
	ErrInvalidRestock   = errors.New("restock quantity must be greater than zero")
)

// Book is the catalog aggregate.
type Book struct {
	ID          int64
	Title       string
	Author      string
	ISBN        string
	Description string
	Tags        []string
	Price       decimal.Decimal
	Quantity    int64
}

// NewBook validates the invariants and builds a new Book aggregate.
func NewBook(id int64, title string, quantity int64) (*Book, error) {
	b := &Book{ID: id}
	if err := b.Retitle(title); err != nil {
		return nil, err
	}
	if err := b.SetQuantity(quantity); err != nil {
		return nil, err
	}
	return b, nil
}

// Retitle mutates the title ensuring it is not blank.
func (b *Book) Retitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	b.Title = title
	return nil
}

// SetQuantity overwrites the stock level.
func (b *Book) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	b.Quantity = quantity
	return nil
}

// SetPrice stores a non-negative price.
func (b *Book) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	b.Price = price
	return nil
}

// Restock increments the stock level in memory. Persistent adapters perform
// the same increment atomically in storage. An amount that would overflow the
// stock level is rejected.
func (b *Book) Restock(amount int64) error {
	if amount <= 0 || amount > math.MaxInt64-b.Quantity {
		return ErrInvalidRestock
	}
	b.Quantity += amount
	return nil
}

// ReplaceTags swaps the current tag set, dropping blanks.
func (b *Book) ReplaceTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	b.Tags = cleaned
}

// Describe sets the free-form descriptive fields.
func (b *Book) Describe(author, isbn, description string) {
	b.Author = strings.TrimSpace(author)
	b.ISBN = strings.TrimSpace(isbn)
	b.Description = strings.TrimSpace(description)
}

// Validate re-applies core invariants for persistence.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if b.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if b.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Clone returns a deep copy so adapters never share slices with callers.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	clone := *b
	clone.Tags = append([]string(nil), b.Tags...)
	return &clone
}
