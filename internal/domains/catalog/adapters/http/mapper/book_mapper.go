package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application/types"
)

// Book is the JSON shape returned for catalog entries.
type Book struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author,omitempty"`
	ISBN        string          `json:"isbn,omitempty"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MutationBook is the request body for create and update; absent fields stay untouched.
type MutationBook struct {
	Title       *string          `json:"title"`
	Author      *string          `json:"author"`
	ISBN        *string          `json:"isbn"`
	Description *string          `json:"description"`
	Tags        *[]string        `json:"tags"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int64           `json:"quantity"`
}

// ToMutationInput converts the transport payload into the application input.
func ToMutationInput(model MutationBook) catalogtypes.BookMutationInput {
	input := catalogtypes.BookMutationInput{
		Title:       model.Title,
		Author:      model.Author,
		ISBN:        model.ISBN,
		Description: model.Description,
		Price:       model.Price,
		Quantity:    model.Quantity,
	}
	if model.Tags != nil {
		tags := append([]string{}, (*model.Tags)...)
		input.Tags = &tags
	}
	return input
}

// FromProjection converts a persisted book into its transport representation.
func FromProjection(p *catalogtypes.BookProjection) Book {
	if p == nil || p.Entity == nil {
		return Book{}
	}
	b := p.Entity
	tags := append([]string{}, b.Tags...)
	return Book{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Description: b.Description,
		Tags:        tags,
		Price:       b.Price,
		Quantity:    b.Quantity,
		CreatedAt:   p.Metadata.CreatedAt,
		UpdatedAt:   p.Metadata.UpdatedAt,
	}
}

// FromProjectionList converts a slice of projections.
func FromProjectionList(list []*catalogtypes.BookProjection) []Book {
	result := make([]Book, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		result = append(result, FromProjection(p))
	}
	return result
}
