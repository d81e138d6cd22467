package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested key or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates missing or invalid client configuration.
	// It is fatal and never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidTenant indicates the tenant lacks the fields the key policy needs.
	ErrInvalidTenant = errors.New("invalid tenant")

	// Authorization Errors.

	// ErrAuthorizationDenied indicates the issuer reported an error on the callback.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrMalformedCallback indicates the callback lacked code or state.
	ErrMalformedCallback = errors.New("malformed callback")

	// ErrInvalidState indicates the state token is unknown or expired.
	ErrInvalidState = errors.New("invalid state")

	// ErrTokenExchangeFailed indicates the authorization-code exchange failed.
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrTokenRefreshFailed indicates the refresh exchange failed.
	// The stored record is left untouched and the tenant must re-authorize.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrNoCredentials indicates no token record is stored for the tenant.
	ErrNoCredentials = errors.New("no credentials")

	// Fetch Errors.

	// ErrObjectFetchFailed indicates one object-list call failed.
	// It is recovered by skipping that object type.
	ErrObjectFetchFailed = errors.New("object fetch failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Store Errors.

	// ErrStoreUnavailable indicates the key-value store could not be reached.
	// It is never masked.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IssuerError carries the token endpoint's response for diagnostics.
// Kind is ErrTokenExchangeFailed or ErrTokenRefreshFailed.
type IssuerError struct {
	Kind       error
	StatusCode int
	Body       string
	Err        error
}

func (e *IssuerError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the kind sentinel and the transport cause.
func (e *IssuerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AuthorizationError carries the issuer's error parameters from a callback.
type AuthorizationError struct {
	Code        string
	Description string
}

func (e *AuthorizationError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s: %s", ErrAuthorizationDenied, e.Code)
	}
	return fmt.Sprintf("%s: %s - %s", ErrAuthorizationDenied, e.Code, e.Description)
}

// Unwrap returns ErrAuthorizationDenied.
func (e *AuthorizationError) Unwrap() error {
	return ErrAuthorizationDenied
}
