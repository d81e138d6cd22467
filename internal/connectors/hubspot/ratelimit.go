package hubspot

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HubSpotRateLimit is the default burst quota for OAuth apps (per window).
	HubSpotRateLimit = 100

	// HubSpotWindow is the default rate limit window.
	HubSpotWindow = 10 * time.Second

	// ProactiveRate is the proactive throttle rate (9 req/sec, under 100/10s).
	ProactiveRate = 9

	// ProactiveBurst lets the three object fetches start together.
	ProactiveBurst = 3

	// MinBuffer is the minimum remaining requests before waiting for the window.
	MinBuffer = 5

	// HeaderRateLimit is the per-window quota header.
	HeaderRateLimit = "X-HubSpot-RateLimit-Max"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-HubSpot-RateLimit-Remaining"

	// HeaderRateInterval is the window length header (milliseconds).
	HeaderRateInterval = "X-HubSpot-RateLimit-Interval-Milliseconds"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines a token bucket with HubSpot's reported quota.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	interval  time.Duration
	resetTime time.Time
	bucket    *rate.Limiter
	minBuffer int
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: HubSpotRateLimit,
		limit:     HubSpotRateLimit,
		interval:  HubSpotWindow,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
		minBuffer: MinBuffer,
		now:       time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	now := r.now()
	r.mu.Unlock()

	if remaining < r.minBuffer && now.Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resetTime.Sub(now)):
		}
	}

	return nil
}

// UpdateFromResponse updates rate limit state from response headers.
// HubSpot reports a rolling window, so the reset point is estimated as
// now plus the window length.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v := resp.Header.Get(HeaderRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.remaining = n
		}
	}
	if v := resp.Header.Get(HeaderRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.limit = n
		}
	}
	if v := resp.Header.Get(HeaderRateInterval); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			r.interval = time.Duration(ms) * time.Millisecond
		}
	}
	if resp.Header.Get(HeaderRateRemaining) != "" {
		r.resetTime = r.now().Add(r.interval)
	}
}

// CheckRateLimit returns a RateLimitError for 429 responses.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.UpdateFromResponse(resp)

	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	r.mu.Lock()
	r.remaining = 0
	if r.resetTime.Before(r.now()) {
		r.resetTime = r.now().Add(r.interval)
	}
	resetTime := r.resetTime
	limit := r.limit
	r.mu.Unlock()

	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			resetTime = r.now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return &RateLimitError{
		ResetAt:   resetTime,
		Remaining: 0,
		Limit:     limit,
	}
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the estimated window reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
