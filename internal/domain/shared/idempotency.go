package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers the outcome of requests that carried an
// idempotency key, so a retried request replays the first response instead
// of producing a second document or number.
//
// A key moves from absent to reserved (Reserve) to completed (Complete), or
// back to absent (Release) when the first attempt failed.
type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns false when the key is already
	// reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the response of a reserved key for ttl
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error

	// Lookup returns the stored response. found is true for reserved keys,
	// which have no response yet.
	Lookup(ctx context.Context, key string) (response []byte, found bool, err error)

	// Release forgets key
	Release(ctx context.Context, key string) error

	Close() error
}
