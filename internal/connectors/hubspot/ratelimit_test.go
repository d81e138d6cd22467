package hubspot

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithHeaders(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestNewRateLimiter(t *testing.T) {
	r := NewRateLimiter()

	assert.Equal(t, HubSpotRateLimit, r.Remaining())
	assert.Equal(t, HubSpotRateLimit, r.Limit())
	assert.True(t, r.ResetTime().IsZero())
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.UpdateFromResponse(responseWithHeaders(200, map[string]string{
		HeaderRateLimit:     "150",
		HeaderRateRemaining: "120",
		HeaderRateInterval:  "10000",
	}))

	assert.Equal(t, 150, r.Limit())
	assert.Equal(t, 120, r.Remaining())
	assert.Equal(t, now.Add(10*time.Second), r.ResetTime())
}

func TestRateLimiter_UpdateFromResponse_IgnoresGarbage(t *testing.T) {
	r := NewRateLimiter()

	r.UpdateFromResponse(responseWithHeaders(200, map[string]string{
		HeaderRateLimit:     "lots",
		HeaderRateRemaining: "-",
	}))
	r.UpdateFromResponse(nil)

	assert.Equal(t, HubSpotRateLimit, r.Limit())
	assert.Equal(t, HubSpotRateLimit, r.Remaining())
}

func TestRateLimiter_CheckRateLimit_OK(t *testing.T) {
	r := NewRateLimiter()

	assert.NoError(t, r.CheckRateLimit(responseWithHeaders(200, nil)))
	assert.NoError(t, r.CheckRateLimit(nil))
}

func TestRateLimiter_CheckRateLimit_429(t *testing.T) {
	r := NewRateLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	err := r.CheckRateLimit(responseWithHeaders(http.StatusTooManyRequests, map[string]string{
		HeaderRetryAfter: "7",
	}))

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, now.Add(7*time.Second), rle.ResetAt)
	assert.Equal(t, 0, r.Remaining())
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestRateLimiter_Wait_RespectsContext(t *testing.T) {
	r := NewRateLimiter()
	r.mu.Lock()
	r.remaining = 0
	r.resetTime = time.Now().Add(time.Hour)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Wait_PassesWithQuota(t *testing.T) {
	r := NewRateLimiter()

	for i := 0; i < ProactiveBurst; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
}
