// Package hubspot implements the CRM object client for HubSpot.
//
// # Architecture
//
// The package provides the driven.ObjectClient used by the item service:
//
//   - Client: calls the CRM v3 object list endpoints with a bearer token
//   - RateLimiter: throttles requests and tracks HubSpot's rate limit headers
//   - Defaults: endpoints, scopes and per-object property projections
//
// # Authentication
//
// Tokens come from the OAuth 2.0 authorisation code flow performed by the
// oauth adapter. The client never refreshes tokens itself; callers pass an
// access token that the auth service has already checked for expiry.
//
// # Limits
//
// Only the first page of each object list is read (limit=50). HubSpot
// allows roughly 100 requests per 10 seconds for OAuth apps; the limiter
// stays under that and reports 429 responses as RateLimitError.
package hubspot
