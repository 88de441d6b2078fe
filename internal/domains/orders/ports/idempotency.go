package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was reused with a different payload.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")

// IdempotencyRecord links a client-supplied key to the order it produced. Keys
// are scoped to the account that sent them.
type IdempotencyRecord struct {
	AccountID   int64
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retried placements replay the original order.
type IdempotencyStore interface {
	// Get returns the stored record, or nil when the key is unknown for the account.
	Get(ctx context.Context, accountID int64, key string) (*IdempotencyRecord, error)
	// Save stores the record. When the key already exists with the same hash the
	// stored record is returned; a different hash yields ErrIdempotencyConflict
	// together with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
