package types

import "github.com/shopspring/decimal"

// BookMutationInput carries optional book fields; nil means "leave unchanged".
type BookMutationInput struct {
	Title       *string
	Author      *string
	ISBN        *string
	Description *string
	Tags        *[]string
	Price       *decimal.Decimal
	Quantity    *int64
}

// AddBookInput creates a new catalog entry.
type AddBookInput struct {
	BookMutationInput
}

// UpdateBookInput changes an existing catalog entry.
type UpdateBookInput struct {
	ID int64
	BookMutationInput
}

// RestockInput carries the raw quantity exactly as the client sent it.
type RestockInput struct {
	BookID   int64
	Quantity string
}
