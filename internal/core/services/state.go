package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore keeps pending authorizations keyed by their state token.
type StateStore struct {
	kv driven.KeyValueStore
}

// NewStateStore creates a state store on kv.
func NewStateStore(kv driven.KeyValueStore) *StateStore {
	return &StateStore{kv: kv}
}

// StateKey returns the store key for state.
func StateKey(state string) string {
	return KeyPrefix + stateNamespace + state
}

// Save records the pending authorization for ttl.
func (s *StateStore) Save(ctx context.Context, pending domain.PendingAuthorization, ttl time.Duration) error {
	if pending.State == "" {
		return fmt.Errorf("%w: empty state", domain.ErrInvalidInput)
	}

	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encoding pending authorization: %w", err)
	}
	if err := s.kv.Set(ctx, StateKey(pending.State), data, ttl); err != nil {
		return storeError("save state", err)
	}
	return nil
}

// Consume returns and deletes the pending authorization for state.
func (s *StateStore) Consume(ctx context.Context, state string) (*domain.PendingAuthorization, error) {
	key := StateKey(state)

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("read state", err)
	}

	// Delete before decoding so a corrupt record is still single-use.
	if err := s.kv.Delete(ctx, key); err != nil {
		return nil, storeError("consume state", err)
	}

	var pending domain.PendingAuthorization
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("decoding pending authorization: %w", err)
	}
	return &pending, nil
}
