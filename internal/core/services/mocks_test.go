package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: t0}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockIssuer is a scripted driven.TokenIssuer.
type mockIssuer struct {
	mu sync.Mutex

	clientID string

	exchangeResult *driven.IssuedToken
	exchangeErr    error
	refreshResult  *driven.IssuedToken
	refreshErr     error

	// refreshGate, when set, blocks Refresh until it is closed.
	refreshGate chan struct{}

	exchangeCalls  int
	refreshCalls   int
	lastCode       string
	lastRefresh    string
	refreshCtxErrs []error
}

func (m *mockIssuer) ClientID() string { return m.clientID }

func (m *mockIssuer) AuthCodeURL(state string) string {
	return "https://auth.example.test/authorize?client_id=" + m.clientID + "&state=" + state
}

func (m *mockIssuer) Exchange(_ context.Context, code string) (*driven.IssuedToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchangeCalls++
	m.lastCode = code
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	tok := *m.exchangeResult
	return &tok, nil
}

func (m *mockIssuer) Refresh(ctx context.Context, refreshToken string) (*driven.IssuedToken, error) {
	if m.refreshGate != nil {
		<-m.refreshGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	m.lastRefresh = refreshToken
	m.refreshCtxErrs = append(m.refreshCtxErrs, ctx.Err())
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	tok := *m.refreshResult
	return &tok, nil
}

func (m *mockIssuer) calls() (exchange, refresh int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchangeCalls, m.refreshCalls
}

// failingKV fails every operation.
type failingKV struct{}

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errConnRefused }
func (failingKV) Set(context.Context, string, []byte, time.Duration) error {
	return errConnRefused
}
func (failingKV) Expire(context.Context, string, time.Duration) error { return errConnRefused }
func (failingKV) Delete(context.Context, string) error                { return errConnRefused }
func (failingKV) Close() error                                         { return nil }

// countingKV records writes on top of another store.
type countingKV struct {
	driven.KeyValueStore
	mu     sync.Mutex
	writes int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.KeyValueStore.Set(ctx, key, value, ttl)
}

func (c *countingKV) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.KeyValueStore.Delete(ctx, key)
}

func (c *countingKV) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// secondGetKV replaces the result of the second Get on top of another store.
type secondGetKV struct {
	driven.KeyValueStore
	mu        sync.Mutex
	gets      int
	secondGet func(ctx context.Context, key string) ([]byte, error)
}

func (k *secondGetKV) Get(ctx context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	k.gets++
	n := k.gets
	k.mu.Unlock()
	if n == 2 && k.secondGet != nil {
		return k.secondGet(ctx, key)
	}
	return k.KeyValueStore.Get(ctx, key)
}

// mockObjectClient returns scripted records per object type.
type mockObjectClient struct {
	mu         sync.Mutex
	records    map[domain.ObjectType][]domain.RawRecord
	errs       map[domain.ObjectType]error
	tokens     []string
	properties map[domain.ObjectType][]string
}

func (m *mockObjectClient) ListObjects(
	_ context.Context,
	accessToken string,
	objectType domain.ObjectType,
	properties []string,
) ([]domain.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = append(m.tokens, accessToken)
	if m.properties == nil {
		m.properties = make(map[domain.ObjectType][]string)
	}
	m.properties[objectType] = properties
	if err := m.errs[objectType]; err != nil {
		return nil, err
	}
	return m.records[objectType], nil
}

// mockCredentials hands out a fixed record.
type mockCredentials struct {
	record *domain.TokenRecord
	err    error
}

func (m *mockCredentials) Credentials(context.Context, domain.TenantID) (*domain.TokenRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}
