package hubspot

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// RateLimitError represents a 429 response with the point the window resets.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("hubspot: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap classifies the error as a rate-limited fetch failure.
func (e *RateLimitError) Unwrap() []error {
	return []error{domain.ErrRateLimited, domain.ErrObjectFetchFailed}
}

// APIError represents a non-success HubSpot API response.
type APIError struct {
	StatusCode    int
	Category      string
	Message       string
	CorrelationID string
	URL           string
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Category != "" {
		msg = e.Category + ": " + msg
	}
	return fmt.Sprintf("hubspot: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// Unwrap classifies the error as a fetch failure.
func (e *APIError) Unwrap() error {
	return domain.ErrObjectFetchFailed
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates a rejected or expired token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsForbidden checks if the error indicates a missing scope.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}
