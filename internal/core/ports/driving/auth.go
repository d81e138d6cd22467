package driving

import (
	"context"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// AuthService manages the OAuth lifecycle of tenant credentials.
type AuthService interface {
	// AuthorizationURL builds the consent-screen URL for tenant and records
	// a state token that maps back to it.
	AuthorizationURL(ctx context.Context, tenant domain.TenantID) (string, error)

	// HandleCallback resolves the tenant from state and exchanges code.
	// Returns the tenant the credentials were stored under.
	HandleCallback(ctx context.Context, code, state string) (domain.TenantID, error)

	// ExchangeCode trades code for tokens and stores them under tenant.
	ExchangeCode(ctx context.Context, code string, tenant domain.TenantID) (*domain.TokenRecord, error)

	// Credentials returns a record valid for at least the near-expiry
	// window, refreshing it first if needed.
	Credentials(ctx context.Context, tenant domain.TenantID) (*domain.TokenRecord, error)

	// Status describes the tenant's connection without refreshing.
	Status(ctx context.Context, tenant domain.TenantID) (*domain.CredentialStatus, error)

	// Disconnect deletes the tenant's stored credentials.
	Disconnect(ctx context.Context, tenant domain.TenantID) error
}
