package driven

import (
	"context"
	"time"
)

// IssuedToken is the issuer's response to a code or refresh exchange.
// ExpiresIn is the raw wire value; callers derive absolute expiry from it.
type IssuedToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    time.Duration
	Scope        string
	HubDomain    string
}

// TokenIssuer performs the OAuth operations against the provider.
// Failures are returned as *domain.IssuerError.
type TokenIssuer interface {
	// ClientID returns the configured client identifier.
	ClientID() string

	// AuthCodeURL builds the consent-screen URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (*IssuedToken, error)

	// Refresh mints a new access token from refreshToken.
	Refresh(ctx context.Context, refreshToken string) (*IssuedToken, error)
}
