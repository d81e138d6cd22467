package driven

import (
	"context"
	"time"
)

// KeyValueStore is the generic persistence the credential layer sits on.
// Operations are atomic per key. Writes are visible to subsequent reads.
type KeyValueStore interface {
	// Get returns the value stored at key.
	// Returns domain.ErrNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	// A zero ttl stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Expire sets or refreshes the time-to-live of key.
	// Expire on a missing key is a no-op.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying connection.
	Close() error
}
