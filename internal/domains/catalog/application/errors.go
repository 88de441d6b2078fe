package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid book input")
	// ErrInvalidQuantity is returned when a restock quantity is not a positive integer.
	ErrInvalidQuantity = fmt.Errorf("%w: invalid quantity", ErrInvalidInput)
	// ErrRestockForbidden is the explicit staff guard on restocking.
	ErrRestockForbidden = errors.New("only staff can restock books")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrNegativeQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidRestock) {
		return fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
	}
	return err
}
