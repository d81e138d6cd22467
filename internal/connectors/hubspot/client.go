package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// Ensure Client implements the interface.
var _ driven.ObjectClient = (*Client)(nil)

// Client calls the HubSpot CRM object endpoints.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	rateLimiter *RateLimiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the base HTTP client whose transport carries requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.rateLimiter = r
		}
	}
}

// NewClient creates a HubSpot API client for baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		timeout:     DefaultTimeout,
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// listResponse is the CRM v3 list envelope. Paging is ignored.
type listResponse struct {
	Results []objectJSON `json:"results"`
}

type objectJSON struct {
	ID         any            `json:"id"`
	Properties map[string]any `json:"properties"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
	Archived   bool           `json:"archived"`
}

// errorResponse is HubSpot's error body.
type errorResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Category      string `json:"category"`
}

// ObjectsURL returns the list endpoint for objectType projected onto properties.
func (c *Client) ObjectsURL(objectType domain.ObjectType, properties []string) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(PageSize))
	if len(properties) > 0 {
		q.Set("properties", strings.Join(properties, ","))
	}
	return c.baseURL + "/crm/v3/objects/" + url.PathEscape(string(objectType)) + "?" + q.Encode()
}

// ListObjects returns the first page of objectType.
func (c *Client) ListObjects(
	ctx context.Context,
	accessToken string,
	objectType domain.ObjectType,
	properties []string,
) ([]domain.RawRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: rate limit wait: %w", domain.ErrObjectFetchFailed, objectType, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.ObjectsURL(objectType, properties)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: build request: %w", domain.ErrObjectFetchFailed, objectType, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorised(ctx, accessToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrObjectFetchFailed, objectType, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp, endpoint)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body listResponse
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %w", domain.ErrObjectFetchFailed, objectType, err)
	}

	records := make([]domain.RawRecord, 0, len(body.Results))
	for _, o := range body.Results {
		records = append(records, domain.RawRecord{
			ID:         formatID(o.ID),
			Properties: o.Properties,
			CreatedAt:  o.CreatedAt,
			UpdatedAt:  o.UpdatedAt,
			Archived:   o.Archived,
		})
	}
	return records, nil
}

// authorised returns an HTTP client that attaches accessToken as a bearer
// token on top of the configured transport.
func (c *Client) authorised(ctx context.Context, accessToken string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = c.timeout
	return hc
}

func apiError(resp *http.Response, endpoint string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	e := &APIError{
		StatusCode: resp.StatusCode,
		URL:        endpoint,
		Message:    strings.TrimSpace(string(raw)),
	}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		e.Message = body.Message
		e.Category = body.Category
		e.CorrelationID = body.CorrelationID
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// formatID renders an id that HubSpot may send as a string or a number.
func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(id)
		return strings.TrimSpace(buf.String())
	}
}
