package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KeyValueStore = (*KVStore)(nil)

type kvEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e kvEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// KVStore is an in-memory implementation of driven.KeyValueStore.
// Expired entries are dropped lazily on access.
type KVStore struct {
	mu      sync.RWMutex
	entries map[string]kvEntry
	now     func() time.Time
}

// NewKVStore creates a new in-memory key-value store.
func NewKVStore() *KVStore {
	return &KVStore{
		entries: make(map[string]kvEntry),
		now:     time.Now,
	}
}

// SetClock replaces the clock used for expiry. Intended for tests.
func (s *KVStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the value stored at key.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	now := s.now()
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.expired(now) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value at key. A zero ttl stores it without expiry.
func (s *KVStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := kvEntry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// Expire sets the time-to-live of key. A missing key is a no-op.
func (s *KVStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		return nil
	}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	} else {
		e.expiresAt = time.Time{}
	}
	s.entries[key] = e
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len returns the number of live entries.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	n := 0
	for _, e := range s.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// Close is a no-op for the memory store.
func (s *KVStore) Close() error {
	return nil
}
