package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// CredentialsStore persists one token record per tenant.
// Keys are derived from the tenant through a domain.KeyPolicy.
type CredentialsStore interface {
	// Put stores a record. Creates if new, overwrites if it exists.
	Put(ctx context.Context, tenant domain.TenantID, record domain.TokenRecord) error

	// Get retrieves the tenant's record.
	// Returns domain.ErrNotFound if no record is stored.
	Get(ctx context.Context, tenant domain.TenantID) (*domain.TokenRecord, error)

	// Expire sets or refreshes the record's time-to-live.
	// A missing record is a no-op.
	Expire(ctx context.Context, tenant domain.TenantID, ttl time.Duration) error

	// Delete removes the tenant's record.
	Delete(ctx context.Context, tenant domain.TenantID) error
}

// StateStore holds the short-lived anti-forgery records created at
// authorization time.
type StateStore interface {
	// Save records that state belongs to tenant for ttl.
	Save(ctx context.Context, pending domain.PendingAuthorization, ttl time.Duration) error

	// Consume returns and deletes the record for state.
	// Returns domain.ErrNotFound if it is unknown or expired.
	Consume(ctx context.Context, state string) (*domain.PendingAuthorization, error)
}
