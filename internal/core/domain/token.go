package domain

import "time"

// NearExpiryWindow is how long before expires_at a token must be refreshed.
const NearExpiryWindow = 60 * time.Second

// TokenRecord is one installation's current OAuth grant.
type TokenRecord struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken mints new access tokens. Issuers may rotate it.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "bearer".
	TokenType string `json:"token_type,omitempty"`
	// ExpiresAt is derived as now + expires_in at issuance or refresh.
	ExpiresAt time.Time `json:"expires_at"`
	// Scope is the space-delimited set of granted scopes. Informational only.
	Scope string `json:"scope,omitempty"`
	// HubDomain is the account domain reported by the issuer, if any.
	HubDomain string `json:"hub_domain,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValid reports whether the access token may still be used at now.
func (r *TokenRecord) IsValid(now time.Time) bool {
	return r.AccessToken != "" && now.Before(r.ExpiresAt)
}

// NeedsRefresh reports whether fewer than NearExpiryWindow remain at now.
func (r *TokenRecord) NeedsRefresh(now time.Time) bool {
	return r.ExpiresAt.Sub(now) < NearExpiryWindow
}

// CredentialStatus describes a tenant's connection without exposing tokens.
type CredentialStatus struct {
	Tenant       TenantID  `json:"tenant"`
	Connected    bool      `json:"connected"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	HubDomain    string    `json:"hub_domain,omitempty"`
	NeedsRefresh bool      `json:"needs_refresh"`
}

// PendingAuthorization is the short-lived side record a state token maps to.
type PendingAuthorization struct {
	State     string    `json:"state"`
	Tenant    TenantID  `json:"tenant"`
	CreatedAt time.Time `json:"created_at"`
}
