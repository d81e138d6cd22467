// Package oauth provides the OAuth 2.0 token issuer backed by golang.org/x/oauth2.
package oauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// DefaultTimeout bounds each token endpoint call.
const DefaultTimeout = 30 * time.Second

// Ensure Issuer implements the interface.
var _ driven.TokenIssuer = (*Issuer)(nil)

// Config holds the client registration used by the issuer.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURI  string
	Scopes       []string
	Timeout      time.Duration

	// HTTPClient is the base client for token requests. Optional.
	HTTPClient *http.Client
}

// Issuer performs the authorization-code and refresh-token grants.
// Client credentials are sent in the form body.
type Issuer struct {
	conf    *oauth2.Config
	timeout time.Duration
	client  *http.Client
}

// NewIssuer creates an issuer from cfg.
func NewIssuer(cfg Config) *Issuer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &Issuer{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: cfg.RedirectURI,
			Scopes:      cfg.Scopes,
		},
		timeout: timeout,
		client:  client,
	}
}

// ClientID returns the configured client identifier.
func (i *Issuer) ClientID() string {
	return i.conf.ClientID
}

// AuthCodeURL builds the consent-screen URL. The scope list is
// space-delimited and the redirect URI is passed through unchanged.
func (i *Issuer) AuthCodeURL(state string) string {
	return i.conf.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens.
func (i *Issuer) Exchange(ctx context.Context, code string) (*driven.IssuedToken, error) {
	ctx, cancel := i.requestContext(ctx)
	defer cancel()

	tok, err := i.conf.Exchange(ctx, code)
	if err != nil {
		return nil, wrapRetrieveError(domain.ErrTokenExchangeFailed, err)
	}
	return issuedFrom(tok), nil
}

// Refresh mints a new access token from refreshToken.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*driven.IssuedToken, error) {
	ctx, cancel := i.requestContext(ctx)
	defer cancel()

	ts := i.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, wrapRetrieveError(domain.ErrTokenRefreshFailed, err)
	}
	return issuedFrom(tok), nil
}

func (i *Issuer) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, i.client)
	return context.WithTimeout(ctx, i.timeout)
}

// wrapRetrieveError converts oauth2 failures into *domain.IssuerError,
// keeping the token endpoint's body for diagnostics.
func wrapRetrieveError(kind, err error) error {
	ie := &domain.IssuerError{Kind: kind, Err: err}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response != nil {
			ie.StatusCode = re.Response.StatusCode
		}
		ie.Body = strings.TrimSpace(string(re.Body))
		if ie.Body == "" && re.ErrorCode != "" {
			ie.Body = re.ErrorCode
		}
	}
	return ie
}
