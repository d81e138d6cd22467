// Package http exposes the authorization flow and item listing over a gin
// router.
package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type errorMapping struct {
	kind   error
	status int
	code   string
}

// Store failures are matched first so they are never reported as
// something else.
var errorMappings = []errorMapping{
	{domain.ErrStoreUnavailable, nethttp.StatusServiceUnavailable, "store_unavailable"},
	{domain.ErrConfiguration, nethttp.StatusInternalServerError, "configuration_error"},
	{domain.ErrAuthorizationDenied, nethttp.StatusBadRequest, "authorization_denied"},
	{domain.ErrMalformedCallback, nethttp.StatusBadRequest, "malformed_callback"},
	{domain.ErrInvalidState, nethttp.StatusBadRequest, "invalid_state"},
	{domain.ErrInvalidTenant, nethttp.StatusBadRequest, "invalid_tenant"},
	{domain.ErrInvalidInput, nethttp.StatusBadRequest, "invalid_input"},
	{domain.ErrTokenExchangeFailed, nethttp.StatusBadGateway, "token_exchange_failed"},
	{domain.ErrTokenRefreshFailed, nethttp.StatusUnauthorized, "token_refresh_failed"},
	{domain.ErrNoCredentials, nethttp.StatusPreconditionFailed, "no_credentials"},
}

// StatusFor maps err to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return nethttp.StatusInternalServerError, "internal_error"
}

func writeError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Details: err.Error()})
}
