// Package redis provides a Redis-backed implementation of driven.KeyValueStore.
//
// Keys are stored as plain strings with native Redis expiry, so stale
// credential and state records are purged by the server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// DefaultURL is used when no connection URL is configured.
const DefaultURL = "redis://localhost:6379/0"

// Ensure Store implements the interface.
var _ driven.KeyValueStore = (*Store)(nil)

// Store is a key-value store on a Redis server.
type Store struct {
	client goredis.UniversalClient
}

// NewStore connects to the server at rawURL and verifies it with PING.
func NewStore(ctx context.Context, rawURL string) (*Store, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}

	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing redis url: %w", domain.ErrConfiguration, err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: connecting to redis: %w", domain.ErrStoreUnavailable, err)
	}

	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get returns the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value at key. A zero ttl stores it without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Expire sets the time-to-live of key. A missing key is a no-op.
// A zero ttl removes any expiry.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	var err error
	if ttl > 0 {
		err = s.client.Expire(ctx, key, ttl).Err()
	} else {
		err = s.client.Persist(ctx, key).Err()
	}
	if err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
