package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated an order invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) || errors.Is(err, domain.ErrMissingCustomer) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
