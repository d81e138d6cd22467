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

// Key layout inside the key-value store.
const (
	KeyPrefix       = "integration:hubspot:"
	tokensNamespace = "tokens:"
	stateNamespace  = "state:"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialsStore = (*CredentialStore)(nil)

// CredentialStore persists token records in a key-value store.
// Keys are derived from the tenant via the configured key policy.
type CredentialStore struct {
	kv     driven.KeyValueStore
	policy domain.KeyPolicy
}

// NewCredentialStore creates a credential store on kv.
func NewCredentialStore(kv driven.KeyValueStore, policy domain.KeyPolicy) *CredentialStore {
	if policy == nil {
		policy = domain.UserOrgPolicy{}
	}
	return &CredentialStore{
		kv:     kv,
		policy: policy,
	}
}

// TokenKey returns the store key for tenant.
func (s *CredentialStore) TokenKey(tenant domain.TenantID) (string, error) {
	k, err := s.policy.Key(tenant)
	if err != nil {
		return "", err
	}
	return KeyPrefix + tokensNamespace + k, nil
}

// Put creates or overwrites the tenant's record.
func (s *CredentialStore) Put(ctx context.Context, tenant domain.TenantID, record domain.TokenRecord) error {
	key, err := s.TokenKey(tenant)
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding token record: %w", err)
	}

	if err := s.kv.Set(ctx, key, data, 0); err != nil {
		return storeError("put credentials", err)
	}
	return nil
}

// Get retrieves the tenant's record.
func (s *CredentialStore) Get(ctx context.Context, tenant domain.TenantID) (*domain.TokenRecord, error) {
	key, err := s.TokenKey(tenant)
	if err != nil {
		return nil, err
	}

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("get credentials", err)
	}

	var record domain.TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding token record: %w", err)
	}
	return &record, nil
}

// Expire sets the record's time-to-live. A missing record is a no-op.
func (s *CredentialStore) Expire(ctx context.Context, tenant domain.TenantID, ttl time.Duration) error {
	key, err := s.TokenKey(tenant)
	if err != nil {
		return err
	}
	if err := s.kv.Expire(ctx, key, ttl); err != nil {
		return storeError("expire credentials", err)
	}
	return nil
}

// Delete removes the tenant's record.
func (s *CredentialStore) Delete(ctx context.Context, tenant domain.TenantID) error {
	key, err := s.TokenKey(tenant)
	if err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return storeError("delete credentials", err)
	}
	return nil
}

// storeError marks err as a store failure while keeping the cause.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
